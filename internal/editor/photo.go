package editor

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/influencer-marketplace/webclient/internal/api"
)

const MaxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidatePhoto rejects files that are too large or not an accepted image type.
// The type falls back to the file extension when the upload carries none.
func ValidatePhoto(u api.Upload) error {
	ct := photoType(u)
	if !allowedPhotoTypes[ct] {
		return api.Validation("Please select a JPEG, PNG or WebP image")
	}
	if u.Size <= 0 {
		return api.Validation("Selected file is empty")
	}
	if u.Size > MaxPhotoSize {
		return api.Validation(fmt.Sprintf("Image must be smaller than %d MB", MaxPhotoSize>>20))
	}
	return nil
}

func photoType(u api.Upload) string {
	ct := u.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(u.Filename)))
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ProfilePhotoEditor holds at most one selected image, validated on selection.
type ProfilePhotoEditor struct {
	lifecycle[*api.Upload, api.Upload]
	current string
}

func NewProfilePhotoEditor(onSave SaveFunc[api.Upload]) *ProfilePhotoEditor {
	e := &ProfilePhotoEditor{}
	e.onSave = onSave
	return e
}

// Open starts with no selection; currentURL is kept for preview only.
func (e *ProfilePhotoEditor) Open(currentURL string) bool {
	opened := e.open(func() *api.Upload { return nil })
	if opened {
		e.mu.Lock()
		e.current = currentURL
		e.mu.Unlock()
	}
	return opened
}

func (e *ProfilePhotoEditor) CurrentURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Select validates u synchronously; an invalid file leaves the previous selection in place.
func (e *ProfilePhotoEditor) Select(u api.Upload) error {
	return e.edit(func(d **api.Upload) error {
		if err := ValidatePhoto(u); err != nil {
			return err
		}
		u.ContentType = photoType(u)
		*d = &u
		return nil
	})
}

func (e *ProfilePhotoEditor) Selected() (u *api.Upload) {
	e.view(func(d *api.Upload) { u = d })
	return u
}

func (e *ProfilePhotoEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d *api.Upload) (api.Upload, error) {
		if d == nil {
			return api.Upload{}, api.Validation("Please select a photo")
		}
		return *d, nil
	})
}
