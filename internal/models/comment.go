package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. BlogID is the post's hex id kept as a plain string.
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	BlogID    string             `json:"blog_id" bson:"blog_id"`
	Comment   string             `json:"comment" bson:"comment"`
	UserName  string             `json:"userName,omitempty" bson:"userName,omitempty"`
	UserEmail string             `json:"userEmail,omitempty" bson:"userEmail,omitempty"`
	UserPhoto string             `json:"userPhoto,omitempty" bson:"userPhoto,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateCommentRequest defines the request body for POST /blogs/comments
type CreateCommentRequest struct {
	BlogID    string `json:"blog_id" validate:"required"`
	Comment   string `json:"comment" validate:"required,min=1,max=1000"`
	UserName  string `json:"userName" validate:"omitempty,max=100"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
	UserPhoto string `json:"userPhoto" validate:"omitempty,url"`
}
