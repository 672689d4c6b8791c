package meme

import "time"

type Meme struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	Caption       string    `json:"caption,omitempty"`
	ImageURLs     []string  `json:"image_urls"`
	Likes         int       `json:"likes"`
	LikedByViewer bool      `json:"liked_by_viewer"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateRequest struct {
	Caption   string   `json:"caption"`
	ImageURLs []string `json:"image_urls"`
}
