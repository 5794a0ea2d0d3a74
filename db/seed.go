package db

import (
	"database/sql"
	"fmt"
)

// EnsureUser creates the single local user if it doesn't exist yet. The app
// is single-learner; credentials come from the environment at boot.
func EnsureUser(db *sql.DB, email, passwordHash string) error {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("error checking user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(
		`INSERT INTO users (email, password_hash) VALUES ($1, $2)`,
		email, passwordHash,
	); err != nil {
		return fmt.Errorf("error seeding user: %w", err)
	}
	return nil
}
