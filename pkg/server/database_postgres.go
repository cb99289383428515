package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type postgresStore struct {
	db   *pgx.Conn
	lock sync.Mutex
}

func openPostgresStore(dataSource string) (*postgresStore, error) {
	db, err := pgx.Connect(context.Background(), dataSource)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := db.Exec(context.Background(), "SELECT 1=1"); err != nil {
		db.Close(context.Background())
		return nil, fmt.Errorf("test connection: %w", err)
	}
	if _, err := db.Exec(context.Background(), gameSchema); err != nil {
		db.Close(context.Background())
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) addGame(summary *gameSummary) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.db.Exec(context.Background(), "INSERT INTO game (id, started, duration, player1, player2, winner, wintype, moves, replay) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		summary.ID.String(), summary.Started.Unix(), summary.Duration.Milliseconds(), summary.PlayerName, summary.OpponentName, summary.Winner, int(summary.WinType), summary.MoveCount, string(summary.Replay))
	return err
}

func (s *postgresStore) game(id uuid.UUID) (*gameSummary, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	summary := &gameSummary{ID: id}
	var started, duration int64
	var winType int
	var replay string
	err := s.db.QueryRow(context.Background(), "SELECT started, duration, player1, player2, winner, wintype, moves, replay FROM game WHERE id = $1", id.String()).
		Scan(&started, &duration, &summary.PlayerName, &summary.OpponentName, &summary.Winner, &winType, &summary.MoveCount, &replay)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *postgresStore) rating(name string) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var rating int
	err := s.db.QueryRow(context.Background(), "SELECT rating FROM rating WHERE name = $1", name).Scan(&rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultRating, nil
	}
	return rating, err
}

func (s *postgresStore) setRating(name string, rating int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.db.Exec(context.Background(), "INSERT INTO rating (name, rating) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET rating = excluded.rating", name, rating)
	return err
}

func (s *postgresStore) leaderboard(limit int) ([]*leaderboardEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	rows, err := s.db.Query(context.Background(), "SELECT name, rating FROM rating ORDER BY rating DESC, name LIMIT $1", limit)
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

func (s *postgresStore) history(name string, limit int) ([]*historyEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	rows, err := s.db.Query(context.Background(), "SELECT id, started, player1, player2, winner, wintype FROM game WHERE LOWER(player1) = LOWER($1) OR LOWER(player2) = LOWER($1) ORDER BY started DESC LIMIT $2", name, limit)
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

func (s *postgresStore) record(name string) (int, int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var wins, total int
	err := s.db.QueryRow(context.Background(), `SELECT
		COUNT(*) FILTER (WHERE (LOWER(player1) = LOWER($1) AND winner = 'player') OR (LOWER(player2) = LOWER($1) AND winner = 'opponent')),
		COUNT(*)
		FROM game WHERE LOWER(player1) = LOWER($1) OR LOWER(player2) = LOWER($1)`, name).Scan(&wins, &total)
	return wins, total, err
}

func (s *postgresStore) close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Close(context.Background())
}
