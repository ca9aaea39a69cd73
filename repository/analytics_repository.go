package repository

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/carrion626/social-network/types"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// LikesByDay returns one entry per post created inside [from, until): the
// post's creation date, its distinct-liker count (0 for unliked posts), its
// id and its author's id. Bounds are optional; until is exclusive, the
// caller widens an inclusive calendar date to the following midnight.
func (r *AnalyticsRepository) LikesByDay(from, until *time.Time) ([]types.AnalyticsEntry, error) {
	var conditions []string
	var params []interface{}
	idx := 1

	if from != nil {
		conditions = append(conditions, "p.created_at >= $"+strconv.Itoa(idx))
		params = append(params, *from)
		idx++
	}
	if until != nil {
		conditions = append(conditions, "p.created_at < $"+strconv.Itoa(idx))
		params = append(params, *until)
		idx++
	}

	query := `
		SELECT p.created_at::date AS day, COUNT(DISTINCT pl.user_id) AS likes_count, p.id, p.user_id
		FROM posts p
		LEFT JOIN post_likes pl ON pl.post_id = p.id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += `
		GROUP BY day, p.id, p.user_id
		ORDER BY day, p.id`

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []types.AnalyticsEntry{}
	for rows.Next() {
		var day time.Time
		var entry types.AnalyticsEntry
		if err := rows.Scan(&day, &entry.LikesCount, &entry.PostID, &entry.AuthorID); err != nil {
			return nil, err
		}
		entry.Date = day.Format("2006-01-02")
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
