package models

const (
	RoleBrand      = "brand"
	RoleInfluencer = "influencer"
	RoleAdmin      = "admin"
)

type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// UserRef is the populated owner embedded in brand and influencer payloads.
type UserRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
