package repository

import (
	"database/sql"

	"github.com/carrion626/social-network/models"
)

type PostsRepository struct {
	db *sql.DB
}

func NewPostsRepository(db *sql.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

func (r *PostsRepository) CreatePost(userID int, content string) (*models.Post, error) {
	var postID int
	err := r.db.QueryRow(`
		INSERT INTO posts (user_id, content, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id`,
		userID, content).Scan(&postID)
	if err != nil {
		return nil, err
	}
	return r.GetPostByID(postID)
}

func (r *PostsRepository) GetPostByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRow(`
		SELECT id, user_id, content, created_at, likes
		FROM posts
		WHERE id = $1`, id).Scan(
		&post.ID, &post.UserID, &post.Content, &post.CreatedAt, &post.Likes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	likedBy, err := r.getLikedBy(post.ID)
	if err != nil {
		return nil, err
	}
	post.LikedBy = likedBy
	return &post, nil
}

func (r *PostsRepository) GetPosts() ([]*models.Post, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, content, created_at, likes
		FROM posts
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content,
			&post.CreatedAt, &post.Likes); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		likedBy, err := r.getLikedBy(post.ID)
		if err != nil {
			return nil, err
		}
		post.LikedBy = likedBy
	}
	return posts, nil
}

func (r *PostsRepository) getLikedBy(postID int) ([]int, error) {
	rows, err := r.db.Query(`
		SELECT user_id FROM post_likes
		WHERE post_id = $1
		ORDER BY created_at, user_id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likedBy := []int{}
	for rows.Next() {
		var userID int
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		likedBy = append(likedBy, userID)
	}
	return likedBy, rows.Err()
}

// ToggleLike flips the caller's like on a post: members of the like set are
// removed and the counter decremented, non-members are added and the counter
// incremented. The post row is locked for the duration of the transaction so
// concurrent toggles on the same post serialize and the counter always equals
// the set size. Returns (nil, false, nil) when the post does not exist; the
// bool reports whether the post is liked by the user after the call.
func (r *PostsRepository) ToggleLike(postID, userID int) (*models.Post, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRow(`SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var liked bool
	err = tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2
		)`, postID, userID).Scan(&liked)
	if err != nil {
		return nil, false, err
	}

	if liked {
		if _, err := tx.Exec(`
			DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
			postID, userID); err != nil {
			return nil, false, err
		}
		if _, err := tx.Exec(`
			UPDATE posts SET likes = likes - 1 WHERE id = $1`, postID); err != nil {
			return nil, false, err
		}
	} else {
		if _, err := tx.Exec(`
			INSERT INTO post_likes (post_id, user_id, created_at)
			VALUES ($1, $2, NOW())`,
			postID, userID); err != nil {
			return nil, false, err
		}
		if _, err := tx.Exec(`
			UPDATE posts SET likes = likes + 1 WHERE id = $1`, postID); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	post, err := r.GetPostByID(postID)
	if err != nil {
		return nil, false, err
	}
	return post, !liked, nil
}
