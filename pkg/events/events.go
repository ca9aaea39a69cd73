package events

// PostLiked is emitted to a post's author when another user likes the post.
// This struct is intentionally small and versionable; changes should be additive.
type PostLiked struct {
	Type    string `json:"type"`
	PostID  int    `json:"postId"`
	LikerID int    `json:"likerId"`
}
