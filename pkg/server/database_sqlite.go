package server

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

func openSQLiteStore(path string) (*sqliteStore, error) {
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(gameSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) addGame(summary *gameSummary) error {
	_, err := s.db.Exec("INSERT INTO game (id, started, duration, player1, player2, winner, wintype, moves, replay) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		summary.ID.String(), summary.Started.Unix(), summary.Duration.Milliseconds(), summary.PlayerName, summary.OpponentName, summary.Winner, int(summary.WinType), summary.MoveCount, string(summary.Replay))
	return err
}

func (s *sqliteStore) game(id uuid.UUID) (*gameSummary, error) {
	summary := &gameSummary{ID: id}
	var started, duration int64
	var winType int
	var replay string
	err := s.db.QueryRow("SELECT started, duration, player1, player2, winner, wintype, moves, replay FROM game WHERE id = ?", id.String()).
		Scan(&started, &duration, &summary.PlayerName, &summary.OpponentName, &summary.Winner, &winType, &summary.MoveCount, &replay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errGameNotFound
	} else if err != nil {
		return nil, err
	}
	summary.Started = time.Unix(started, 0)
	summary.Duration = time.Duration(duration) * time.Millisecond
	summary.WinType = bgammon.WinType(winType)
	summary.Replay = []byte(replay)
	return summary, nil
}

func (s *sqliteStore) rating(name string) (int, error) {
	var rating int
	err := s.db.QueryRow("SELECT rating FROM rating WHERE name = ?", name).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultRating, nil
	}
	return rating, err
}

func (s *sqliteStore) setRating(name string, rating int) error {
	_, err := s.db.Exec("INSERT INTO rating (name, rating) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET rating = excluded.rating", name, rating)
	return err
}

func (s *sqliteStore) leaderboard(limit int) ([]*leaderboardEntry, error) {
	rows, err := s.db.Query("SELECT name, rating FROM rating ORDER BY rating DESC, name LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*leaderboardEntry
	for rows.Next() {
		entry := &leaderboardEntry{}
		if err := rows.Scan(&entry.User, &entry.Rating); err != nil {
			return nil, err
		}
		entry.Rating /= 100
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *sqliteStore) history(name string, limit int) ([]*historyEntry, error) {
	rows, err := s.db.Query("SELECT id, started, player1, player2, winner, wintype FROM game WHERE player1 = ? COLLATE NOCASE OR player2 = ? COLLATE NOCASE ORDER BY started DESC LIMIT ?", name, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*historyEntry
	for rows.Next() {
		var id, player1, player2, winner string
		var started int64
		var winType int
		if err := rows.Scan(&id, &started, &player1, &player2, &winner, &winType); err != nil {
			return nil, err
		}
		entries = append(entries, historyFor(name, id, started, player1, player2, winner, winType))
	}
	return entries, rows.Err()
}

func (s *sqliteStore) record(name string) (int, int, error) {
	var wins, total int
	err := s.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN (player1 = ? COLLATE NOCASE AND winner = 'player') OR (player2 = ? COLLATE NOCASE AND winner = 'opponent') THEN 1 ELSE 0 END), 0),
		COUNT(*)
		FROM game WHERE player1 = ? COLLATE NOCASE OR player2 = ? COLLATE NOCASE`, name, name, name, name).Scan(&wins, &total)
	return wins, total, err
}

func (s *sqliteStore) close() error {
	return s.db.Close()
}
