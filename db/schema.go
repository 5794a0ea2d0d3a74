package db

import (
	"database/sql"
	"fmt"
)

const Schema = `
-- Create users table (single seeded user, see EnsureUser)
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Create refresh_tokens table
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL,
    token VARCHAR(255) UNIQUE NOT NULL,
    expires_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

-- Create courses table: one row per imported course folder. root_path is
-- the last known location of the folder on disk; it may go stale.
CREATE TABLE IF NOT EXISTS courses (
    id VARCHAR(255) PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    cover_image TEXT,
    root_path TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Create lessons table: the persisted course summary. File handles are not
-- durable, only presence flags plus progress survive restarts.
CREATE TABLE IF NOT EXISTS lessons (
    id SERIAL PRIMARY KEY,
    course_id VARCHAR(255) NOT NULL,
    lesson_id VARCHAR(255) NOT NULL,
    part VARCHAR(255) NOT NULL,
    title TEXT NOT NULL,
    ord INTEGER NOT NULL,
    has_video BOOLEAN NOT NULL DEFAULT FALSE,
    has_srt BOOLEAN NOT NULL DEFAULT FALSE,
    has_pdf BOOLEAN NOT NULL DEFAULT FALSE,
    has_html BOOLEAN NOT NULL DEFAULT FALSE,
    has_txt BOOLEAN NOT NULL DEFAULT FALSE,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    position DOUBLE PRECISION NOT NULL DEFAULT 0,
    vocab_generated BOOLEAN NOT NULL DEFAULT FALSE,
    FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE,
    UNIQUE(course_id, lesson_id)
);

-- Create vocabulary table; word is unique case-insensitively.
CREATE TABLE IF NOT EXISTS vocabulary (
    id VARCHAR(27) PRIMARY KEY,
    word TEXT NOT NULL,
    ipa TEXT NOT NULL DEFAULT '',
    meaning TEXT NOT NULL DEFAULT '',
    example TEXT NOT NULL DEFAULT '',
    translation TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS vocabulary_word_lower_idx ON vocabulary (LOWER(word));
`

// InitSchema creates all tables if they don't exist
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("error initializing schema: %w", err)
	}
	return nil
}
