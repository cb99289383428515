package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"github.com/google/uuid"
)

// defaultRating is the rating of a player without recorded games, multiplied
// by 100.
const defaultRating = 150000

var errGameNotFound = errors.New("game not found")

const gameSchema = `
CREATE TABLE IF NOT EXISTS game (
	id       text PRIMARY KEY,
	started  bigint NOT NULL,
	duration bigint NOT NULL,
	player1  text NOT NULL,
	player2  text NOT NULL,
	winner   text NOT NULL,
	wintype  integer NOT NULL,
	moves    integer NOT NULL,
	replay   text NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS rating (
	name   text PRIMARY KEY,
	rating integer NOT NULL DEFAULT 150000
);
`

// gameSummary is the record of a finished game. Winner is "player" when the
// player seated first won and "opponent" otherwise.
type gameSummary struct {
	ID           uuid.UUID
	Started      time.Time
	PlayerName   string
	OpponentName string
	Winner       string
	Duration     time.Duration
	MoveCount    int
	WinType      bgammon.WinType
	Replay       []byte
}

type leaderboardEntry struct {
	User   string
	Rating int
}

type leaderboardResult struct {
	Leaderboard []*leaderboardEntry
}

type historyEntry struct {
	ID       string
	Started  int64
	Opponent string
	Won      bool
	WinType  bgammon.WinType
}

type accountStats struct {
	Username string
	Rating   int
	Wins     int
	Losses   int
	History  []*historyEntry
}

// resultStore persists finished games and player ratings. Ratings are
// multiplied by 100.
type resultStore interface {
	addGame(summary *gameSummary) error
	game(id uuid.UUID) (*gameSummary, error)
	rating(name string) (int, error)
	setRating(name string, rating int) error
	leaderboard(limit int) ([]*leaderboardEntry, error)
	history(name string, limit int) ([]*historyEntry, error)
	record(name string) (wins int, total int, err error)
	close() error
}

// openStore opens the store described by the data source. PostgreSQL is used
// for postgres:// URLs, any other value is the path of a SQLite database.
func openStore(dataSource string) (resultStore, error) {
	if strings.HasPrefix(dataSource, "postgres://") || strings.HasPrefix(dataSource, "postgresql://") {
		st, err := openPostgresStore(dataSource)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	st, err := openSQLiteStore(dataSource)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// rated returns whether games of the player affect ratings.
func rated(name string) bool {
	return name != "" && !strings.HasPrefix(strings.ToLower(name), "guest_")
}

// recordResult stores the summary and updates the ratings of both players.
func recordResult(st resultStore, summary *gameSummary) error {
	if err := st.addGame(summary); err != nil {
		return fmt.Errorf("failed to add game: %w", err)
	}
	if !rated(summary.PlayerName) || !rated(summary.OpponentName) || strings.EqualFold(summary.PlayerName, summary.OpponentName) {
		return nil
	}

	rating1, err := st.rating(summary.PlayerName)
	if err != nil {
		return fmt.Errorf("failed to get rating of %s: %w", summary.PlayerName, err)
	}
	rating2, err := st.rating(summary.OpponentName)
	if err != nil {
		return fmt.Errorf("failed to get rating of %s: %w", summary.OpponentName, err)
	}

	rating1, rating2 = rank(rating1, rating2, summary.Winner == "player")
	if err := st.setRating(summary.PlayerName, rating1); err != nil {
		return fmt.Errorf("failed to set rating of %s: %w", summary.PlayerName, err)
	}
	if err := st.setRating(summary.OpponentName, rating2); err != nil {
		return fmt.Errorf("failed to set rating of %s: %w", summary.OpponentName, err)
	}
	return nil
}

// stats returns the statistics of a player.
func stats(st resultStore, name string) (*accountStats, error) {
	rating, err := st.rating(name)
	if err != nil {
		return nil, err
	}
	wins, total, err := st.record(name)
	if err != nil {
		return nil, err
	}
	history, err := st.history(name, 25)
	if err != nil {
		return nil, err
	}
	return &accountStats{
		Username: name,
		Rating:   rating / 100,
		Wins:     wins,
		Losses:   total - wins,
		History:  history,
	}, nil
}

// winnerName returns the name of the winner of a stored game.
func winnerName(player1 string, player2 string, winner string) string {
	if winner == "player" {
		return player1
	}
	return player2
}

func historyFor(name string, id string, started int64, player1 string, player2 string, winner string, winType int) *historyEntry {
	opponent := player2
	if !strings.EqualFold(player1, name) {
		opponent = player1
	}
	return &historyEntry{
		ID:       id,
		Started:  started,
		Opponent: opponent,
		Won:      strings.EqualFold(winnerName(player1, player2, winner), name),
		WinType:  bgammon.WinType(winType),
	}
}
