package editor

import (
	"context"
	"strings"
)

const DefaultMaxTags = 10

// SuggestedTags is the palette offered when the caller supplies none.
var SuggestedTags = []string{
	"Fashion", "Beauty", "Lifestyle", "Travel", "Food", "Fitness",
	"Technology", "Gaming", "Music", "Education", "Finance", "Parenting",
}

type TagsOption func(*TagsEditor)

// WithMaxTags sets the tag limit; values below 1 keep the default.
func WithMaxTags(n int) TagsOption {
	return func(e *TagsEditor) {
		if n > 0 {
			e.max = n
		}
	}
}

// WithFoldCase makes duplicate detection case-insensitive ("Travel" equals "travel").
func WithFoldCase() TagsOption {
	return func(e *TagsEditor) { e.foldCase = true }
}

func WithSuggestions(tags []string) TagsOption {
	return func(e *TagsEditor) { e.suggested = tags }
}

type TagsEditor struct {
	lifecycle[[]string, []string]
	max       int
	foldCase  bool
	suggested []string
}

func NewTagsEditor(onSave SaveFunc[[]string], opts ...TagsOption) *TagsEditor {
	e := &TagsEditor{max: DefaultMaxTags, suggested: SuggestedTags}
	e.onSave = onSave
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *TagsEditor) MaxTags() int { return e.max }

// Open seeds the draft from current tags, dropping blanks and duplicates and keeping at most MaxTags.
func (e *TagsEditor) Open(current []string) bool {
	return e.open(func() []string {
		out := make([]string, 0, len(current))
		for _, t := range current {
			out, _ = e.appendTag(out, t)
		}
		return out
	})
}

func (e *TagsEditor) same(a, b string) bool {
	if e.foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (e *TagsEditor) index(tags []string, tag string) int {
	for i, t := range tags {
		if e.same(t, tag) {
			return i
		}
	}
	return -1
}

func (e *TagsEditor) appendTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(tags) >= e.max || e.index(tags, tag) >= 0 {
		return tags, false
	}
	return append(tags, tag), true
}

// Add appends one tag. Duplicates, blanks and additions past the limit are ignored.
func (e *TagsEditor) Add(tag string) (added bool, err error) {
	err = e.edit(func(d *[]string) error {
		*d, added = e.appendTag(*d, tag)
		return nil
	})
	return added, err
}

// AddBulk adds comma-separated tags in order and returns how many were accepted.
func (e *TagsEditor) AddBulk(input string) (n int, err error) {
	err = e.edit(func(d *[]string) error {
		for _, t := range strings.Split(input, ",") {
			var ok bool
			if *d, ok = e.appendTag(*d, t); ok {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (e *TagsEditor) Remove(tag string) (removed bool, err error) {
	err = e.edit(func(d *[]string) error {
		i := e.index(*d, tag)
		if i < 0 {
			return nil
		}
		*d = append((*d)[:i:i], (*d)[i+1:]...)
		removed = true
		return nil
	})
	return removed, err
}

// ToggleSuggested removes tag when selected, otherwise adds it (subject to the limit).
func (e *TagsEditor) ToggleSuggested(tag string) (selected bool, err error) {
	err = e.edit(func(d *[]string) error {
		if i := e.index(*d, tag); i >= 0 {
			*d = append((*d)[:i:i], (*d)[i+1:]...)
			return nil
		}
		*d, selected = e.appendTag(*d, tag)
		return nil
	})
	return selected, err
}

func (e *TagsEditor) Tags() []string {
	var out []string
	e.view(func(d []string) { out = append([]string(nil), d...) })
	return out
}

// Suggestions lists palette tags not yet selected.
func (e *TagsEditor) Suggestions() []string {
	selected := e.Tags()
	var out []string
	for _, s := range e.suggested {
		if e.index(selected, s) < 0 {
			out = append(out, s)
		}
	}
	return out
}

func (e *TagsEditor) AtLimit() bool {
	return len(e.Tags()) >= e.max
}

func (e *TagsEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d []string) ([]string, error) {
		out := append([]string{}, d...)
		if len(out) > e.max {
			out = out[:e.max]
		}
		return out, nil
	})
}
