package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/editor"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/models"
)

type MetaHandler struct {
	maxTags int
}

func NewMetaHandler(maxTags int) *MetaHandler {
	if maxTags <= 0 {
		maxTags = editor.DefaultMaxTags
	}
	return &MetaHandler{maxTags: maxTags}
}

type MetaPlatform struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type MetaTags struct {
	Suggested []string `json:"suggested"`
	MaxTags   int      `json:"max_tags"`
}

var platformLabels = map[string]string{
	models.PlatformInstagram: "Instagram",
	models.PlatformYouTube:   "YouTube",
	models.PlatformTikTok:    "TikTok",
	models.PlatformX:         "X",
	models.PlatformFacebook:  "Facebook",
}

func (h *MetaHandler) GetPlatforms(c *fiber.Ctx) error {
	out := make([]MetaPlatform, 0, len(models.AllPlatforms))
	for _, p := range models.AllPlatforms {
		out = append(out, MetaPlatform{ID: p, Label: platformLabels[p]})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}

func (h *MetaHandler) GetTags(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: MetaTags{
		Suggested: editor.SuggestedTags,
		MaxTags:   h.maxTags,
	}})
}
