package repository

import (
	"database/sql"
	"errors"

	"github.com/carrion626/social-network/models"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned by CreateUser when the username is already
// registered (unique constraint violation).
var ErrUsernameTaken = errors.New("username already taken")

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) CreateUser(username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = r.db.QueryRow(`
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, username, created_at`,
		username, string(hash)).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) GetUserByUsername(username string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(`
		SELECT id, username, password_hash, created_at, last_login, last_request
		FROM users
		WHERE username = $1`, username))
}

func (r *UsersRepository) GetUserByID(id int) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(`
		SELECT id, username, password_hash, created_at, last_login, last_request
		FROM users
		WHERE id = $1`, id))
}

func (r *UsersRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var lastLogin, lastRequest sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.CreatedAt, &lastLogin, &lastRequest)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	if lastRequest.Valid {
		user.LastRequest = &lastRequest.Time
	}
	return &user, nil
}

func (r *UsersRepository) GetUsers() ([]*models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, username, created_at, last_login, last_request
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var lastLogin, lastRequest sql.NullTime
		if err := rows.Scan(&user.ID, &user.Username, &user.CreatedAt,
			&lastLogin, &lastRequest); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}
		if lastRequest.Valid {
			user.LastRequest = &lastRequest.Time
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *UsersRepository) TouchLastLogin(id int) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

func (r *UsersRepository) TouchLastRequest(id int) error {
	_, err := r.db.Exec(`UPDATE users SET last_request = NOW() WHERE id = $1`, id)
	return err
}
