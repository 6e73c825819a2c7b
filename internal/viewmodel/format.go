package viewmodel

import (
	"strconv"
	"strings"

	"github.com/influencer-marketplace/webclient/internal/models"
)

const (
	PlaceholderLocation       = "Location not specified"
	PlaceholderInfluencerName = "Influencer Name"
	PlaceholderBrandName      = "Brand Name"
	PlaceholderDescription    = "No description provided"
)

// FormatCount abbreviates follower and view counts: 950, 1.2K, 3.4M, 1B.
func FormatCount(n int64) string {
	if n < 0 {
		// -(n+1) stays in range for math.MinInt64
		return "-" + formatMagnitude(uint64(-(n+1))+1)
	}
	return formatMagnitude(uint64(n))
}

func formatMagnitude(n uint64) string {
	switch {
	case n < 1_000:
		return strconv.FormatUint(n, 10)
	case n < 1_000_000:
		return abbreviate(n, 1_000, "K")
	case n < 1_000_000_000:
		return abbreviate(n, 1_000_000, "M")
	default:
		return abbreviate(n, 1_000_000_000, "B")
	}
}

func abbreviate(n, unit uint64, suffix string) string {
	// one decimal, truncated so 1999 shows as 1.9K rather than rounding up to 2.0K
	s := strconv.FormatUint(n/unit, 10)
	if d := n % unit / (unit / 10); d != 0 {
		s += "." + strconv.FormatUint(d, 10)
	}
	return s + suffix
}

// FormatLocation joins the known parts of a structured location.
func FormatLocation(l models.Location) string {
	var parts []string
	for _, p := range []*string{l.City, l.State, l.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return PlaceholderLocation
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func StatusLabel(status string) string {
	switch status {
	case models.CampaignStatusDraft:
		return "Draft"
	case models.CampaignStatusActive:
		return "Active"
	case models.CampaignStatusClosed:
		return "Closed"
	case models.CampaignStatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
