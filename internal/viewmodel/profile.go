package viewmodel

import (
	"sort"

	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
)

type BrandProfile struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Logo        string         `json:"logo,omitempty"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Location    string         `json:"location"`
	Website     string         `json:"website,omitempty"`
	Stats       CampaignStats  `json:"stats"`
	Campaigns   []CampaignCard `json:"campaigns"`
	CanEdit     bool           `json:"canEdit"`
}

func NewBrandProfile(b models.Brand, campaigns []models.Campaign, v rbac.Viewer) BrandProfile {
	name := b.Name
	logo := b.Logo
	if b.User != nil {
		name = orDefault(b.User.Name, name)
		if logo == "" {
			logo = b.User.Avatar
		}
	}
	return BrandProfile{
		ID:          b.ID,
		Name:        orDefault(name, PlaceholderBrandName),
		Logo:        logo,
		Description: orDefault(b.Description, PlaceholderDescription),
		Tags:        nonNil(b.Tags),
		Location:    orDefault(b.Location, PlaceholderLocation),
		Website:     b.Website,
		Stats:       ComputeCampaignStats(campaigns),
		Campaigns:   CampaignCards(campaigns, nil),
		CanEdit:     v.CanEditOwned(b.UserID),
	}
}

type FollowerCount struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
	Display  string `json:"display"`
}

type EngagementMetrics struct {
	AvgViewPerPost  int64 `json:"avgViewPerPost"`
	HighestView     int64 `json:"highestView"`
	AvgLikesPerPost int64 `json:"avgLikesPerPost"`
	HighestLikes    int64 `json:"highestLikes"`
}

func metricsFrom(s *models.FollowerStats) *EngagementMetrics {
	if s == nil {
		return nil
	}
	return &EngagementMetrics{
		AvgViewPerPost:  s.AvgViewPerPost,
		HighestView:     s.HighestView,
		AvgLikesPerPost: s.AvgLikesPerPost,
		HighestLikes:    s.HighestLikes,
	}
}

// followerCounts lists counts in platform display order; unknown platforms follow alphabetically.
func followerCounts(m map[string]int64) ([]FollowerCount, int64) {
	out := []FollowerCount{}
	var total int64
	seen := map[string]bool{}
	add := func(p string) {
		n, ok := m[p]
		if !ok || seen[p] {
			return
		}
		seen[p] = true
		total += n
		out = append(out, FollowerCount{Platform: p, Count: n, Display: FormatCount(n)})
	}
	for _, p := range models.AllPlatforms {
		add(p)
	}
	var rest []string
	for p := range m {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	for _, p := range rest {
		add(p)
	}
	return out, total
}

type InfluencerDetail struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	ProfileImage       string                 `json:"profileImage,omitempty"`
	CoverImage         string                 `json:"coverImage,omitempty"`
	Bio                string                 `json:"bio"`
	Description        string                 `json:"description"`
	Tags               []string               `json:"tags"`
	Location           string                 `json:"location"`
	LocationFields     models.Location        `json:"locationFields"`
	Followers          []FollowerCount        `json:"followers"`
	TotalFollowers     int64                  `json:"totalFollowers"`
	TotalDisplay       string                 `json:"totalFollowersDisplay"`
	SocialProfiles     []models.SocialProfile `json:"socialProfiles"`
	Rating             float64                `json:"rating"`
	IsTopCreator       bool                   `json:"isTopCreator"`
	HasVerifiedPayment bool                   `json:"hasVerifiedPayment"`
	Metrics            *EngagementMetrics     `json:"metrics,omitempty"`
	Content            []models.ContentItem   `json:"content"`
	CanEdit            bool                   `json:"canEdit"`
}

// NewInfluencerDetail prefers follower counts from stats; without stats it falls back to the profile's own counts.
func NewInfluencerDetail(in models.Influencer, stats *models.FollowerStats, content []models.ContentItem, v rbac.Viewer) InfluencerDetail {
	followers := in.Followers
	if stats != nil && len(stats.Followers) > 0 {
		followers = stats.Followers
	}
	counts, total := followerCounts(followers)

	return InfluencerDetail{
		ID:                 in.ID,
		Name:               influencerName(in),
		ProfileImage:       profileImage(in),
		CoverImage:         in.CoverImage,
		Bio:                in.Bio,
		Description:        orDefault(in.Description, PlaceholderDescription),
		Tags:               nonNil(in.Tags),
		Location:           FormatLocation(in.Location),
		LocationFields:     in.Location,
		Followers:          counts,
		TotalFollowers:     total,
		TotalDisplay:       FormatCount(total),
		SocialProfiles:     socialProfiles(in.SocialProfiles),
		Rating:             in.Rating,
		IsTopCreator:       in.IsTopCreator,
		HasVerifiedPayment: in.HasVerifiedPayment,
		Metrics:            metricsFrom(stats),
		Content:            nonNil(content),
		CanEdit:            v.CanEditOwned(in.UserID),
	}
}

type InfluencerCard struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	ProfileImage       string             `json:"profileImage,omitempty"`
	Location           string             `json:"location"`
	Tags               []string           `json:"tags"`
	Platforms          []string           `json:"platforms"`
	TotalFollowers     int64              `json:"totalFollowers"`
	FollowersDisplay   string             `json:"followersDisplay"`
	Rating             float64            `json:"rating"`
	IsTopCreator       bool               `json:"isTopCreator"`
	HasVerifiedPayment bool               `json:"hasVerifiedPayment"`
	Metrics            *EngagementMetrics `json:"metrics,omitempty"`
}

// NewInfluencerCard builds a discovery card; stats may be nil when enrichment failed.
func NewInfluencerCard(in models.Influencer, stats *models.FollowerStats) InfluencerCard {
	followers := in.Followers
	if stats != nil && len(stats.Followers) > 0 {
		followers = stats.Followers
	}
	counts, total := followerCounts(followers)
	platforms := make([]string, 0, len(counts))
	for _, c := range counts {
		platforms = append(platforms, c.Platform)
	}

	return InfluencerCard{
		ID:                 in.ID,
		Name:               influencerName(in),
		ProfileImage:       profileImage(in),
		Location:           FormatLocation(in.Location),
		Tags:               nonNil(in.Tags),
		Platforms:          platforms,
		TotalFollowers:     total,
		FollowersDisplay:   FormatCount(total),
		Rating:             in.Rating,
		IsTopCreator:       in.IsTopCreator,
		HasVerifiedPayment: in.HasVerifiedPayment,
		Metrics:            metricsFrom(stats),
	}
}

func influencerName(in models.Influencer) string {
	if in.User != nil && in.User.Name != "" {
		return in.User.Name
	}
	return orDefault(in.Name, PlaceholderInfluencerName)
}

func profileImage(in models.Influencer) string {
	if in.ProfileImage == "" && in.User != nil {
		return in.User.Avatar
	}
	return in.ProfileImage
}

// socialProfiles fills in missing URLs from the platform templates.
func socialProfiles(ps []models.SocialProfile) []models.SocialProfile {
	out := make([]models.SocialProfile, 0, len(ps))
	for _, p := range ps {
		if p.Username == "" {
			continue
		}
		if p.ProfileURL == "" {
			p = models.NewSocialProfile(p.Platform, p.Username)
		}
		out = append(out, p)
	}
	return out
}
