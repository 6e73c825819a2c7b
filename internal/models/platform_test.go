package models

import "testing"

func TestProfileURL(t *testing.T) {
	tests := []struct {
		platform string
		username string
		expected string
	}{
		{PlatformInstagram, "jane", "https://instagram.com/jane"},
		{PlatformYouTube, "jane", "https://youtube.com/@jane"},
		{PlatformTikTok, "jane", "https://tiktok.com/@jane"},
		{PlatformX, "jane", "https://x.com/jane"},
		{PlatformFacebook, "jane", "https://facebook.com/jane"},
		{"myspace", "jane", ""},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			if got := ProfileURL(tt.platform, tt.username); got != tt.expected {
				t.Errorf("ProfileURL(%q, %q) = %q, want %q", tt.platform, tt.username, got, tt.expected)
			}
		})
	}
}

func TestNewSocialProfileNormalizesUsername(t *testing.T) {
	p := NewSocialProfile(PlatformTikTok, "  @jane ")
	if p.Username != "jane" {
		t.Errorf("username = %q, want jane", p.Username)
	}
	if p.ProfileURL != "https://tiktok.com/@jane" {
		t.Errorf("url = %q", p.ProfileURL)
	}
}

func TestEveryPlatformHasTemplate(t *testing.T) {
	for _, p := range AllPlatforms {
		if !IsValidPlatform(p) {
			t.Errorf("platform %q missing url template", p)
		}
	}
}
