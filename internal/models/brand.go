package models

import "time"

type Brand struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	User        *UserRef  `json:"user,omitempty"`
	Name        string    `json:"name,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
