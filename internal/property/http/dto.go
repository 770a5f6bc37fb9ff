package http

import (
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type PropertyResponse struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	HostName      string    `json:"host_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Capacity      int       `json:"capacity"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	PricePerNight int64     `json:"price_per_night"`
	CleaningFee   int64     `json:"cleaning_fee"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:            p.ID,
		HostID:        p.HostID,
		HostName:      p.HostName,
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		Capacity:      p.Capacity,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		PricePerNight: p.PricePerNight,
		CleaningFee:   p.CleaningFee,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type ListPropertiesRequest struct {
	request.ListParams
	HostID        string `form:"host_id" binding:"omitempty,uuid"`
	City          string `form:"city"`
	Keyword       string `form:"q"`
	MinGuests     int    `form:"guests" binding:"omitempty,min=1"`
	IsActive      *bool  `form:"is_active"`
	AvailableFrom string `form:"available_from"`
	AvailableTo   string `form:"available_to"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=created_at price_per_night capacity title"`
}

type CreatePropertyRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	City          string `json:"city" binding:"required"`
	Country       string `json:"country" binding:"required"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	Bedrooms      int    `json:"bedrooms" binding:"min=0"`
	Bathrooms     int    `json:"bathrooms" binding:"min=0"`
	PricePerNight int64  `json:"price_per_night" binding:"min=0"`
	CleaningFee   int64  `json:"cleaning_fee" binding:"min=0"`
}

type UpdatePropertyRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Description   *string `json:"description"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	Capacity      *int    `json:"capacity" binding:"omitempty,min=1"`
	Bedrooms      *int    `json:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms     *int    `json:"bathrooms" binding:"omitempty,min=0"`
	PricePerNight *int64  `json:"price_per_night" binding:"omitempty,min=0"`
	CleaningFee   *int64  `json:"cleaning_fee" binding:"omitempty,min=0"`
	IsActive      *bool   `json:"is_active"`
}
