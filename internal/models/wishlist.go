package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry is a post saved by a user. WishID references the post and is unique across the collection.
type WishlistEntry struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email            string             `json:"email" bson:"email"`
	WishID           string             `json:"wish_id" bson:"wish_id"`
	Title            string             `json:"title,omitempty" bson:"title,omitempty"`
	ImageURL         string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Category         string             `json:"category,omitempty" bson:"category,omitempty"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateWishlistRequest struct {
	Email            string `json:"email" validate:"required,email"`
	WishID           string `json:"wish_id" validate:"required"`
	Title            string `json:"title" validate:"omitempty,max=200"`
	ImageURL         string `json:"imageUrl" validate:"omitempty,url"`
	Category         string `json:"category" validate:"omitempty,max=60"`
	ShortDescription string `json:"shortDescription" validate:"omitempty,max=500"`
}

func (r *CreateWishlistRequest) ToEntry(now time.Time) *WishlistEntry {
	return &WishlistEntry{
		Email:            r.Email,
		WishID:           r.WishID,
		Title:            r.Title,
		ImageURL:         r.ImageURL,
		Category:         r.Category,
		ShortDescription: r.ShortDescription,
		CreatedAt:        now,
	}
}
