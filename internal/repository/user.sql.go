package repository

import (
	"context"
)

const findUserByEmail = `-- name: FindUserByEmail :one
SELECT id, email, password, created_at, updated_at FROM users WHERE email = $1`

func (q *Queries) FindUserByEmail(c context.Context, email string) (User, error) {
	var i User
	err := q.db.QueryRow(c, findUserByEmail, email).
		Scan(&i.ID, &i.Email, &i.Password, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const insertUser = `-- name: InsertUser :one
INSERT INTO users (email, password) VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password, updated_at = NOW()
RETURNING id, email, password, created_at, updated_at`

// InsertUser creates the account or resets its password when the email already exists.
func (q *Queries) InsertUser(c context.Context, email string, password string) (User, error) {
	var i User
	err := q.db.QueryRow(c, insertUser, email, password).
		Scan(&i.ID, &i.Email, &i.Password, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}
