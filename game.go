package bgammon

import (
	"fmt"
	"time"
)

type Phase int8

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "setup":
		*p = PhaseSetup
	case "playing":
		*p = PhasePlaying
	case "finished":
		*p = PhaseFinished
	default:
		return fmt.Errorf("unknown phase: %s", text)
	}
	return nil
}

// Game is the authoritative state of a single game. Its board is only ever
// replaced with the result of Apply.
type Game struct {
	Board   *Board
	Players [2]Player
	Phase   Phase
	Turn    int8
	Rolled  bool
	Roll1   int8
	Roll2   int8
	Dice    []int8 // Remaining pips.
	Winner  int8

	Moves     []Move // Moves played during the current or most recent turn.
	MoveCount int
	LastMove  string

	DoubleValue int8 // Doubling cube value. Doubling is not offered.

	Started time.Time
	Ended   time.Time

	// Version is incremented on every accepted change.
	Version int
}

func NewGame() *Game {
	return &Game{
		Board:       NewBoard(),
		Players:     [2]Player{NewPlayer(0), NewPlayer(1)},
		Winner:      NoPlayer,
		DoubleValue: 1,
	}
}

// Copy returns a deep copy of the game.
func (g *Game) Copy() *Game {
	c := *g
	c.Board = g.Board.Copy()
	c.Dice = append([]int8(nil), g.Dice...)
	c.Moves = append([]Move(nil), g.Moves...)
	return &c
}

// Start begins play with the player awaiting a roll.
func (g *Game) Start(player int8) {
	g.Phase = PhasePlaying
	g.Turn = player
	g.Started = time.Now()
	g.Version++
}

// Reset restores the starting position. Player names are kept.
func (g *Game) Reset() {
	players := g.Players
	version := g.Version
	*g = *NewGame()
	g.Players = players
	g.Version = version + 1
}

func (g *Game) checkTurn(player int8) error {
	switch {
	case g.Phase == PhaseSetup:
		return ErrNotStarted
	case g.Phase == PhaseFinished:
		return ErrGameFinished
	case player != g.Turn:
		return ErrNotYourTurn
	}
	return nil
}

// Roll sets the dice of the player whose turn it is. When no checker can move
// with the roll, the turn passes to the opponent immediately and skipped is
// true.
func (g *Game) Roll(player int8, roll1 int8, roll2 int8) (skipped bool, err error) {
	if err := g.checkTurn(player); err != nil {
		return false, err
	} else if g.Rolled {
		return false, ErrAlreadyRolled
	} else if roll1 < 1 || roll1 > 6 || roll2 < 1 || roll2 > 6 {
		return false, fmt.Errorf("invalid roll: %d-%d", roll1, roll2)
	}

	g.Roll1, g.Roll2 = roll1, roll2
	g.Dice = NewDice(roll1, roll2)
	g.Rolled = true
	g.Moves = nil
	g.Version++

	if !HasLegalMove(g.Board, g.Dice, player) {
		g.LastMove = fmt.Sprintf("Player %d rolled %d-%d and cannot move", player+1, roll1, roll2)
		g.endTurn()
		return true, nil
	}
	return false, nil
}

// Move validates and plays a single checker move, returning the pip it used.
// When more than one die could bear the checker off, the exact die is used,
// otherwise the smallest die that bears it off. A *MoveError is returned when
// the move breaks a rule.
func (g *Game) Move(move Move) (int8, error) {
	if err := g.checkMove(move.Player); err != nil {
		return 0, err
	}

	pip, moveErr := PipForMove(g.Board, g.Dice, move)
	if moveErr != nil {
		return 0, moveErr
	}
	g.play(move, pip)
	return pip, nil
}

// MoveWithPip validates and plays a single checker move using the pip.
func (g *Game) MoveWithPip(move Move, pip int8) error {
	if err := g.checkMove(move.Player); err != nil {
		return err
	}

	if moveErr := CheckPip(g.Board, g.Dice, move, pip); moveErr != nil {
		return moveErr
	}
	g.play(move, pip)
	return nil
}

func (g *Game) checkMove(player int8) error {
	if err := g.checkTurn(player); err != nil {
		return err
	} else if !g.Rolled {
		return ErrNotRolled
	}
	return nil
}

// play applies a validated move, then ends the game or the turn when no
// further move is possible.
func (g *Game) play(move Move, pip int8) {
	hit := IsHit(g.Board, move)
	g.Board = Apply(g.Board, move)
	g.Board.mustValidate()
	g.Dice = RemovePip(g.Dice, pip)
	g.Moves = append(g.Moves, move)
	g.MoveCount++
	g.LastMove = DescribeMove(move, pip, hit)
	g.Version++

	if winner, ok := CheckVictory(g.Board); ok {
		g.finish(winner)
		return
	}

	if !HasLegalMove(g.Board, g.Dice, g.Turn) {
		g.endTurn()
	}
}

// Forfeit ends the game in favor of the opponent of the player.
func (g *Game) Forfeit(player int8) error {
	if g.Phase == PhaseFinished {
		return ErrGameFinished
	} else if g.Phase == PhaseSetup {
		return ErrNotStarted
	}
	g.LastMove = fmt.Sprintf("Player %d left the game", player+1)
	g.finish(Opponent(player))
	return nil
}

// Available returns the single-pip moves the current player may make.
func (g *Game) Available() []Move {
	if g.Phase != PhasePlaying || !g.Rolled {
		return nil
	}
	return LegalMoves(g.Board, g.Dice, g.Turn)
}

// endTurn passes play to the opponent. The roll and moves of the finished
// turn remain readable until the next roll.
func (g *Game) endTurn() {
	g.Turn = Opponent(g.Turn)
	g.Rolled = false
	g.Dice = nil
	g.Version++
}

func (g *Game) finish(winner int8) {
	g.Phase = PhaseFinished
	g.Winner = winner
	g.Rolled = false
	g.Dice = nil
	g.Ended = time.Now()
	g.Version++
}

// Duration returns the time elapsed between the start and end of the game.
func (g *Game) Duration() time.Duration {
	if g.Started.IsZero() {
		return 0
	}
	ended := g.Ended
	if ended.IsZero() {
		ended = time.Now()
	}
	return ended.Sub(g.Started)
}
