package editor

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
)

type SocialAccountsEditor struct {
	lifecycle[map[string]string, []models.SocialProfile]
}

func NewSocialAccountsEditor(onSave SaveFunc[[]models.SocialProfile]) *SocialAccountsEditor {
	e := &SocialAccountsEditor{}
	e.onSave = onSave
	return e
}

func (e *SocialAccountsEditor) Open(current []models.SocialProfile) bool {
	return e.open(func() map[string]string {
		d := make(map[string]string, len(current))
		for _, p := range current {
			if models.IsValidPlatform(p.Platform) {
				d[p.Platform] = models.NormalizeUsername(p.Username)
			}
		}
		return d
	})
}

// SetUsername sets the handle for one platform; an empty handle removes the platform.
func (e *SocialAccountsEditor) SetUsername(platform, username string) error {
	if !models.IsValidPlatform(platform) {
		return api.Validation("Unknown platform: " + platform)
	}
	return e.edit(func(d *map[string]string) error {
		if u := models.NormalizeUsername(username); u != "" {
			(*d)[platform] = u
		} else {
			delete(*d, platform)
		}
		return nil
	})
}

// Profiles renders the draft in platform display order with template URLs.
func (e *SocialAccountsEditor) Profiles() []models.SocialProfile {
	var out []models.SocialProfile
	e.view(func(d map[string]string) { out = profilesFrom(d) })
	return out
}

func (e *SocialAccountsEditor) Save(ctx context.Context) error {
	return e.commit(ctx, func(d map[string]string) ([]models.SocialProfile, error) {
		return profilesFrom(d), nil
	})
}

func profilesFrom(d map[string]string) []models.SocialProfile {
	out := []models.SocialProfile{}
	for _, p := range models.AllPlatforms {
		if u := d[p]; u != "" {
			out = append(out, models.NewSocialProfile(p, u))
		}
	}
	return out
}
