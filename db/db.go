package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func NewConn(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	err = initDB(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	return db, nil
}

func initDB(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS holi (
	year INTEGER PRIMARY KEY,
	moon TIMESTAMP NOT NULL,
	rule TEXT NOT NULL,
	computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`)
	if err != nil {
		return err
	}
	return nil
}
