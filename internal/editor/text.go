package editor

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/influencer-marketplace/webclient/internal/api"
)

var ErrEmptyName = api.Validation("Name cannot be empty")

type NameEditor struct {
	lifecycle[string, string]
}

func NewNameEditor(onSave SaveFunc[string]) *NameEditor {
	e := &NameEditor{}
	e.onSave = onSave
	return e
}

func (e *NameEditor) Open(current string) bool {
	return e.open(func() string { return current })
}

func (e *NameEditor) SetName(name string) error {
	return e.edit(func(d *string) error {
		*d = name
		return nil
	})
}

func (e *NameEditor) Draft() (name string) {
	e.view(func(d string) { name = d })
	return name
}

// CanSave is false for a blank draft, which disables the save action.
func (e *NameEditor) CanSave() bool {
	return e.IsOpen() && e.Phase() != PhaseSaving && strings.TrimSpace(e.Draft()) != ""
}

func (e *NameEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d string) (string, error) {
		name := strings.TrimSpace(d)
		if name == "" {
			return "", ErrEmptyName
		}
		return name, nil
	})
}

const MaxDescriptionLength = 1000

type DescriptionEditor struct {
	lifecycle[string, string]
	max int
}

func NewDescriptionEditor(onSave SaveFunc[string]) *DescriptionEditor {
	e := &DescriptionEditor{max: MaxDescriptionLength}
	e.onSave = onSave
	return e
}

func (e *DescriptionEditor) Open(current string) bool {
	return e.open(func() string { return truncateRunes(current, e.max) })
}

// SetText truncates input beyond the maximum length.
func (e *DescriptionEditor) SetText(text string) error {
	return e.edit(func(d *string) error {
		*d = truncateRunes(text, e.max)
		return nil
	})
}

func (e *DescriptionEditor) Draft() (text string) {
	e.view(func(d string) { text = d })
	return text
}

func (e *DescriptionEditor) Remaining() int {
	return e.max - utf8.RuneCountInString(e.Draft())
}

// Save sends the trimmed text; an empty description is allowed and clears it.
func (e *DescriptionEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d string) (string, error) {
		return strings.TrimSpace(d), nil
	})
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
