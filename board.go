package bgammon

import (
	"fmt"
	"log"
)

// Points 1-24 are board spaces. The bar and the borne off trays are not
// stored in Points, but their pseudo-spaces are used in moves.
const (
	SpaceBar = 0
	SpaceOff = 25
)

const (
	numPoints = 25

	// CheckersPerPlayer is the number of checkers each player owns.
	CheckersPerPlayer = 15
)

// Board is stored from a fixed perspective. Positive values represent
// checkers of player 0, negative values represent checkers of player 1.
// Index 0 of Points is unused.
type Board struct {
	Points [numPoints]int8
	Bar    [2]int8
	Off    [2]int8
}

// NewBoard returns a board in the starting position.
func NewBoard() *Board {
	b := &Board{}
	b.Points[1] = 2
	b.Points[12] = 6
	b.Points[17] = 6
	b.Points[19] = 1

	b.Points[24] = -2
	b.Points[13] = -6
	b.Points[8] = -6
	b.Points[6] = -1
	return b
}

// Copy returns a copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// Checkers returns the number of checkers the player has on the point.
func (b *Board) Checkers(point int8, player int8) int8 {
	if point < 1 || point > 24 {
		return 0
	}
	return PlayerCheckers(b.Points[point], player)
}

// PlayerCheckers returns the number of checkers a signed point value holds
// for the player.
func PlayerCheckers(value int8, player int8) int8 {
	if player == 0 {
		if value > 0 {
			return value
		}
		return 0
	}
	if value < 0 {
		return -value
	}
	return 0
}

// OpponentCheckers returns the number of checkers a signed point value holds
// for the opponent of the player.
func OpponentCheckers(value int8, player int8) int8 {
	return PlayerCheckers(value, Opponent(player))
}

// Count returns the total number of checkers the player has on the board,
// on the bar and borne off.
func (b *Board) Count(player int8) int {
	var n int
	for point := int8(1); point <= 24; point++ {
		n += int(b.Checkers(point, player))
	}
	return n + int(b.Bar[player]) + int(b.Off[player])
}

// Validate returns an error when the checker count of either player differs
// from CheckersPerPlayer.
func (b *Board) Validate() error {
	for player := int8(0); player < 2; player++ {
		if n := b.Count(player); n != CheckersPerPlayer {
			return fmt.Errorf("player %d has %d checkers", player, n)
		}
	}
	return nil
}

// mustValidate panics when the board is in an impossible state. The rule
// engine is the only writer of boards, so a failure is a programming error.
func (b *Board) mustValidate() {
	if err := b.Validate(); err != nil {
		log.Panicf("invalid board %v: %s", b.Points, err)
	}
}

// PipCount returns the total distance the player must travel to bear off all
// checkers.
func (b *Board) PipCount(player int8) int {
	var pips int
	for point := int8(1); point <= 24; point++ {
		checkers := int(b.Checkers(point, player))
		if checkers == 0 {
			continue
		}
		if player == 0 {
			pips += checkers * int(point)
		} else {
			pips += checkers * int(25-point)
		}
	}
	return pips + int(b.Bar[player])*25
}
