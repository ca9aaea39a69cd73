package types

// AnalyticsEntry is one row of the likes analytics report: the distinct-liker
// count for a single post on its creation date. The author field keeps the
// descriptive key the public API has always exposed; clients depend on it.
type AnalyticsEntry struct {
	Date       string `json:"date"`
	LikesCount int    `json:"likes_count"`
	PostID     int    `json:"post_id"`
	AuthorID   int    `json:"id of the user who created this post"`
}
