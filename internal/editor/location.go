package editor

import (
	"context"
	"strings"

	"github.com/influencer-marketplace/webclient/internal/models"
)

// LocationFields is the editable form of a models.Location; blank means unset.
type LocationFields struct {
	City    string
	State   string
	Country string
	Address string
	Pincode string
}

type LocationEditor struct {
	lifecycle[LocationFields, models.Location]
}

func NewLocationEditor(onSave SaveFunc[models.Location]) *LocationEditor {
	e := &LocationEditor{}
	e.onSave = onSave
	return e
}

func (e *LocationEditor) Open(current models.Location) bool {
	return e.open(func() LocationFields {
		return LocationFields{
			City:    deref(current.City),
			State:   deref(current.State),
			Country: deref(current.Country),
			Address: deref(current.Address),
			Pincode: deref(current.Pincode),
		}
	})
}

func (e *LocationEditor) Set(fields LocationFields) error {
	return e.edit(func(d *LocationFields) error {
		*d = fields
		return nil
	})
}

func (e *LocationEditor) Update(fn func(f *LocationFields)) error {
	return e.edit(func(d *LocationFields) error {
		fn(d)
		return nil
	})
}

func (e *LocationEditor) Draft() (f LocationFields) {
	e.view(func(d LocationFields) { f = d })
	return f
}

// Save omits blank fields instead of sending empty strings.
func (e *LocationEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d LocationFields) (models.Location, error) {
		return models.Location{
			City:    optional(d.City),
			State:   optional(d.State),
			Country: optional(d.Country),
			Address: optional(d.Address),
			Pincode: optional(d.Pincode),
		}, nil
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
