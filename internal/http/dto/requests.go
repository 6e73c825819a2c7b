package dto

type ApplyRequest struct {
	Message string `json:"message"`
}

type PositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type DescriptionRequest struct {
	Description string `json:"description"`
}

type TagsRequest struct {
	Tags []string `json:"tags"`
}

type LocationRequest struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

// SocialAccountsRequest maps platform to username; an omitted platform is cleared.
type SocialAccountsRequest struct {
	Accounts map[string]string `json:"accounts"`
}
