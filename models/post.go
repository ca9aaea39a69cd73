package models

import "time"

// Post carries the denormalized likes counter together with the membership
// set it is derived from. Both are updated in one transaction, see
// repository.PostsRepository.ToggleLike.
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	LikedBy   []int     `json:"likedBy"`
}
