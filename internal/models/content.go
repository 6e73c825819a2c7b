package models

const (
	ContentShorts = "shorts"
	ContentVideos = "videos"
)

const (
	ContentWindow7d  = "7d"
	ContentWindow30d = "30d"
)

func IsValidContentWindow(w string) bool {
	return w == ContentWindow7d || w == ContentWindow30d
}

type ContentItem struct {
	ID        string `json:"id"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
}
