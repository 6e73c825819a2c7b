package models

// Location is structured and fully optional; nil fields are omitted on the wire.
type Location struct {
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Country *string `json:"country,omitempty"`
	Address *string `json:"address,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

func (l Location) IsEmpty() bool {
	return l.City == nil && l.State == nil && l.Country == nil && l.Address == nil && l.Pincode == nil
}
