package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a blog post stored in the blogs collection.
type Post struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	ImageURL         string             `json:"imageUrl" bson:"imageUrl"`
	Category         string             `json:"category" bson:"category"`
	ShortDescription string             `json:"shortDescription" bson:"shortDescription"`
	LongDescription  string             `json:"longDescription" bson:"longDescription"`
	Rating           float64            `json:"rating" bson:"rating"`
	AuthorName       string             `json:"authorName,omitempty" bson:"authorName,omitempty"`
	AuthorEmail      string             `json:"authorEmail,omitempty" bson:"authorEmail,omitempty"`
	AuthorPhoto      string             `json:"authorPhoto,omitempty" bson:"authorPhoto,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreatePostRequest defines the request body for POST /blogs
type CreatePostRequest struct {
	Title            string     `json:"title" validate:"required,min=1,max=200"`
	ImageURL         string     `json:"imageUrl" validate:"omitempty,url"`
	Category         string     `json:"category" validate:"required,max=60"`
	ShortDescription string     `json:"shortDescription" validate:"required,max=500"`
	LongDescription  string     `json:"longDescription" validate:"required"`
	Rating           float64    `json:"rating" validate:"min=0,max=5"`
	AuthorName       string     `json:"authorName" validate:"omitempty,max=100"`
	AuthorEmail      string     `json:"authorEmail" validate:"omitempty,email"`
	AuthorPhoto      string     `json:"authorPhoto" validate:"omitempty,url"`
	CreatedAt        *time.Time `json:"createdAt"`
}

// UpdatePostRequest defines the request body for PUT /updateblog/:id.
// Nil fields were absent from the body and are left untouched.
type UpdatePostRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=1,max=200"`
	ImageURL         *string `json:"imageUrl" validate:"omitempty,url"`
	Category         *string `json:"category" validate:"omitempty,max=60"`
	ShortDescription *string `json:"shortDescription" validate:"omitempty,max=500"`
	LongDescription  *string `json:"longDescription"`
}

// ToPost builds the stored document, stamping createdAt when the client sent none.
func (r *CreatePostRequest) ToPost(now time.Time) *Post {
	created := now
	if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
		created = *r.CreatedAt
	}
	return &Post{
		Title:            r.Title,
		ImageURL:         r.ImageURL,
		Category:         r.Category,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Rating:           r.Rating,
		AuthorName:       r.AuthorName,
		AuthorEmail:      r.AuthorEmail,
		AuthorPhoto:      r.AuthorPhoto,
		CreatedAt:        created,
	}
}
