package models

import "time"

type Influencer struct {
	ID                 string           `json:"_id"`
	UserID             string           `json:"userId"`
	User               *UserRef         `json:"user,omitempty"`
	Name               string           `json:"name,omitempty"`
	ProfileImage       string           `json:"profileImage,omitempty"`
	CoverImage         string           `json:"coverImage,omitempty"`
	Bio                string           `json:"bio,omitempty"`
	Description        string           `json:"description,omitempty"`
	Tags               []string         `json:"tags,omitempty"`
	Location           Location         `json:"location"`
	Followers          map[string]int64 `json:"followers,omitempty"`
	SocialProfiles     []SocialProfile  `json:"socialProfiles,omitempty"`
	Rating             float64          `json:"rating"`
	IsTopCreator       bool             `json:"isTopCreator"`
	HasVerifiedPayment bool             `json:"hasVerifiedPayment"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// FollowerStats comes from a separate call and is loaded lazily per profile.
type FollowerStats struct {
	InfluencerID    string           `json:"influencerId"`
	Followers       map[string]int64 `json:"followers"`
	AvgViewPerPost  int64            `json:"avgViewPerPost"`
	HighestView     int64            `json:"highestView"`
	AvgLikesPerPost int64            `json:"avgLikesPerPost"`
	HighestLikes    int64            `json:"highestLikes"`
}
