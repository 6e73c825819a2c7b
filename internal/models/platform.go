package models

import (
	"fmt"
	"strings"
)

const (
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformX         = "x"
	PlatformFacebook  = "facebook"
)

// AllPlatforms is also the display order.
var AllPlatforms = []string{PlatformInstagram, PlatformYouTube, PlatformTikTok, PlatformX, PlatformFacebook}

var profileURLTemplates = map[string]string{
	PlatformInstagram: "https://instagram.com/%s",
	PlatformYouTube:   "https://youtube.com/@%s",
	PlatformTikTok:    "https://tiktok.com/@%s",
	PlatformX:         "https://x.com/%s",
	PlatformFacebook:  "https://facebook.com/%s",
}

func IsValidPlatform(p string) bool {
	_, ok := profileURLTemplates[p]
	return ok
}

// ProfileURL returns the public profile link for username on platform, or "" for an unknown platform.
func ProfileURL(platform, username string) string {
	tmpl, ok := profileURLTemplates[platform]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, username)
}

// NormalizeUsername strips whitespace and a leading "@".
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	return strings.TrimPrefix(username, "@")
}

type SocialProfile struct {
	Platform   string `json:"platform"`
	Username   string `json:"username"`
	ProfileURL string `json:"profileUrl"`
}

func NewSocialProfile(platform, username string) SocialProfile {
	username = NormalizeUsername(username)
	return SocialProfile{
		Platform:   platform,
		Username:   username,
		ProfileURL: ProfileURL(platform, username),
	}
}
