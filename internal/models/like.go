package models

import "time"

// Like is the existence record for a user liking a post. No counter is
// stored anywhere; like counts are always derived by counting rows. The
// composite unique index makes concurrent duplicate likes collapse into
// a single row plus a conflict error.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"` // MongoDB ObjectID hex
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
