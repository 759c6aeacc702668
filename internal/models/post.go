package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Posts are never
// hard-deleted; is_active=false marks them removed while keeping likes,
// comments and notification references intact.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Content   string             `json:"content" bson:"content"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Category  string             `json:"category,omitempty" bson:"category,omitempty"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Category string `json:"category,omitempty" validate:"omitempty,max=50"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=500"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Category string `json:"category,omitempty" validate:"omitempty,max=50"`
}
