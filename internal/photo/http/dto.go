package http

import (
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/photo"
)

type PhotoURI struct {
	ID      string `uri:"id" binding:"required,uuid"`
	PhotoID string `uri:"photoId" binding:"required,uuid"`
}

type PhotoResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	Filename     string    `json:"filename"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Size         int64     `json:"size"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	var thumbURL *string
	if p.ThumbnailPath != nil {
		t := photo.ThumbnailURL(p.PropertyID, p.ID)
		thumbURL = &t
	}
	return PhotoResponse{
		ID:           p.ID,
		PropertyID:   p.PropertyID,
		Filename:     p.Filename,
		URL:          photo.URL(p.PropertyID, p.ID),
		ThumbnailURL: thumbURL,
		Size:         p.Size,
		Position:     p.Position,
		CreatedAt:    p.CreatedAt,
	}
}
