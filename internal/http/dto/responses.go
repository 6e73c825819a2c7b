package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ToggleSaveResponse struct {
	CampaignID string `json:"campaign_id"`
	Saved      bool   `json:"saved"`
}

type DismissedResponse struct {
	Dismissed bool `json:"dismissed"`
}
