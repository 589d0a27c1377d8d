package user

import "time"

// User is the identity record. It is immutable after registration: no edit
// or delete routes exist, removal is an administrative action outside the app.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"` // bcrypt, never the plaintext
	IsAuthor     bool      `db:"is_author"`
	CreatedAt    time.Time `db:"created_at"`
}
