package bgammon

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCaptureFromStart(t *testing.T) {
	g := NewGame()
	if g.Board.Points[6] != -1 {
		t.Fatalf("expected a blot of player 2 on 6, got %d", g.Board.Points[6])
	}
	g.Start(0)

	skipped, err := g.Roll(0, 6, 5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if skipped {
		t.Fatal("unexpected skip")
	}

	_, err = g.Move(Move{From: 1, To: SpaceOff, Player: 0})
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Reason != ReasonNotAllHome {
		t.Fatalf("expected %s, got %v", ReasonNotAllHome, err)
	}

	pip, err := g.Move(Move{From: 12, To: 6, Player: 0})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if pip != 6 {
		t.Fatalf("expected pip 6, got %d", pip)
	}
	if g.Board.Bar[1] != 1 {
		t.Fatalf("expected captured checker on the bar, got %d", g.Board.Bar[1])
	} else if g.Board.Points[6] != 1 || g.Board.Points[12] != 5 {
		t.Fatalf("unexpected points: 6=%d 12=%d", g.Board.Points[6], g.Board.Points[12])
	} else if g.Turn != 0 || len(g.Dice) != 1 || g.Dice[0] != 5 {
		t.Fatalf("expected player 0 to keep the 5, got turn %d dice %v", g.Turn, g.Dice)
	} else if !strings.HasSuffix(g.LastMove, "hit a blot") {
		t.Fatalf("unexpected last move: %s", g.LastMove)
	}
}

func TestEnterAfterRoll(t *testing.T) {
	g := NewGame()
	g.Board = &Board{}
	g.Board.Bar[1] = 1
	g.Board.Points[24] = -14
	g.Board.Points[3] = 2
	g.Board.Points[6] = 13
	g.Start(1)

	if _, err := g.Roll(1, 3, 4); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, err := g.Move(Move{From: SpaceBar, To: 3, Player: 1})
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Reason != ReasonBlocked {
		t.Fatalf("expected %s, got %v", ReasonBlocked, err)
	}
	if _, err := g.Move(Move{From: SpaceBar, To: 4, Player: 1}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Board.Bar[1] != 0 || g.Board.Points[4] != -1 {
		t.Fatalf("unexpected board: bar %v point 4 %d", g.Board.Bar, g.Board.Points[4])
	}
}

func TestVictoryEndsTurn(t *testing.T) {
	g := NewGame()
	g.Board = &Board{}
	g.Board.Points[2] = 1
	g.Board.Off[0] = 14
	g.Board.Points[13] = -15
	g.Start(0)

	if _, err := g.Roll(0, 2, 3); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := g.Move(Move{From: 2, To: SpaceOff, Player: 0}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Phase != PhaseFinished {
		t.Fatalf("expected phase %s, got %s", PhaseFinished, g.Phase)
	} else if g.Winner != 0 {
		t.Fatalf("expected winner 0, got %d", g.Winner)
	} else if len(g.Dice) != 0 || g.Rolled {
		t.Fatalf("expected remaining dice to be discarded, got %v", g.Dice)
	}

	version := g.Version
	if _, err := g.Move(Move{From: 13, To: 16, Player: 1}); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	} else if g.Version != version {
		t.Fatal("rejected move changed the game")
	}
	if w := WinTypeOf(g.Board, g.Winner); w != WinGammon {
		t.Fatalf("expected %s, got %s", WinGammon, w)
	}
}

func TestSkipWithoutLegalMove(t *testing.T) {
	g := NewGame()
	g.Board = &Board{}
	g.Board.Bar[0] = 1
	g.Board.Points[6] = 14
	g.Board.Points[24] = -2
	g.Board.Points[23] = -2
	g.Board.Points[13] = -11
	g.Start(0)

	before := *g.Board
	skipped, err := g.Roll(0, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if !skipped {
		t.Fatal("expected the roll to be skipped")
	}
	if g.Turn != 1 || g.Rolled {
		t.Fatalf("expected player 1 to roll next, got turn %d rolled %v", g.Turn, g.Rolled)
	} else if *g.Board != before {
		t.Fatal("skipped roll modified the board")
	} else if g.Roll1 != 1 || g.Roll2 != 2 {
		t.Fatalf("expected skipped roll to remain readable, got %d-%d", g.Roll1, g.Roll2)
	}
}

func TestTurnArbitration(t *testing.T) {
	g := NewGame()
	if _, err := g.Roll(0, 3, 1); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	g.Start(0)

	if _, err := g.Roll(1, 3, 1); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := g.Move(Move{From: 12, To: 9, Player: 0}); !errors.Is(err, ErrNotRolled) {
		t.Fatalf("expected ErrNotRolled, got %v", err)
	}
	if _, err := g.Roll(0, 7, 1); err == nil {
		t.Fatal("expected invalid roll to fail")
	}
	if _, err := g.Roll(0, 3, 1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := g.Roll(0, 3, 1); !errors.Is(err, ErrAlreadyRolled) {
		t.Fatalf("expected ErrAlreadyRolled, got %v", err)
	}
	if _, err := g.Move(Move{From: 13, To: 16, Player: 1}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	if _, err := g.Move(Move{From: 12, To: 9, Player: 0}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := g.Move(Move{From: 12, To: 11, Player: 0}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Turn != 1 || g.Rolled {
		t.Fatalf("expected turn to pass after using both dice, got turn %d", g.Turn)
	} else if len(g.Moves) != 2 || g.MoveCount != 2 {
		t.Fatalf("unexpected moves %v (count %d)", g.Moves, g.MoveCount)
	}
}

func TestDoublesGrantFourMoves(t *testing.T) {
	g := NewGame()
	g.Start(0)
	if _, err := g.Roll(0, 2, 2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i := 0; i < 4; i++ {
		if g.Turn != 0 {
			t.Fatalf("turn passed after %d moves", i)
		}
		if _, err := g.Move(Move{From: 12, To: 10, Player: 0}); err != nil {
			t.Fatalf("move %d: %s", i, err)
		}
	}
	if g.Turn != 1 {
		t.Fatal("expected turn to pass after four moves")
	} else if g.Board.Points[10] != 4 {
		t.Fatalf("expected four checkers on 10, got %d", g.Board.Points[10])
	}
}

func TestRandomPlay(t *testing.T) {
	for game := 0; game < 20; game++ {
		g := NewGame()
		g.Start(int8(RandInt(2)))
		for turns := 0; g.Phase == PhasePlaying; turns++ {
			if turns == 5000 {
				t.Logf("game %d: stopped after %d turns", game, turns)
				break
			}
			player := g.Turn
			skipped, err := g.Roll(player, RollDie(), RollDie())
			if err != nil {
				t.Fatalf("game %d: roll failed: %s", game, err)
			}
			if !skipped {
				if _, err := PlayTurn(g, player); err != nil {
					t.Fatalf("game %d: %s", game, err)
				}
			}
			if err := g.Board.Validate(); err != nil {
				t.Fatalf("game %d: %s", game, err)
			} else if g.Phase == PhasePlaying && g.Turn == player {
				t.Fatalf("game %d: turn did not pass from player %d", game, player)
			}
		}
		if g.Phase == PhaseFinished && g.Board.Off[g.Winner] != CheckersPerPlayer {
			t.Fatalf("game %d: winner %d has %d checkers off", game, g.Winner, g.Board.Off[g.Winner])
		}
	}
}

func TestMoveWithPip(t *testing.T) {
	g := NewGame()
	g.Board = &Board{}
	g.Board.Points[2] = 1
	g.Board.Points[4] = 1
	g.Board.Off[0] = 13
	g.Board.Points[20] = -15
	g.Start(0)
	if _, err := g.Roll(0, 6, 2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	err := g.MoveWithPip(Move{From: 2, To: SpaceOff, Player: 0}, 6)
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Reason != ReasonBearOffFarthest {
		t.Fatalf("expected %s, got %v", ReasonBearOffFarthest, err)
	}
	if err := g.MoveWithPip(Move{From: 4, To: 2, Player: 0}, 6); !errors.As(err, &moveErr) || moveErr.Reason != ReasonNoMatchingDie {
		t.Fatalf("expected %s, got %v", ReasonNoMatchingDie, err)
	}
	if err := g.MoveWithPip(Move{From: 4, To: SpaceOff, Player: 1}, 6); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	if err := g.MoveWithPip(Move{From: 4, To: SpaceOff, Player: 0}, 6); err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if len(g.Dice) != 1 || g.Dice[0] != 2 {
		t.Fatalf("expected the 2 to remain, got %v", g.Dice)
	} else if !strings.HasSuffix(g.LastMove, "with a 6") {
		t.Fatalf("unexpected last move: %s", g.LastMove)
	}

	if err := g.MoveWithPip(Move{From: 2, To: SpaceOff, Player: 0}, 2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if g.Phase != PhaseFinished || g.Winner != 0 {
		t.Fatalf("expected player 0 to win, got phase %s winner %d", g.Phase, g.Winner)
	}
}

func TestForfeit(t *testing.T) {
	g := NewGame()
	if err := g.Forfeit(0); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	g.Start(0)
	if err := g.Forfeit(0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Phase != PhaseFinished || g.Winner != 1 {
		t.Fatalf("expected player 1 to win, got phase %s winner %d", g.Phase, g.Winner)
	}
	if err := g.Forfeit(1); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
}

func TestResetAndCopy(t *testing.T) {
	g := NewGame()
	g.Players[0].Name = "alice"
	g.Start(0)
	if _, err := g.Roll(0, 3, 1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	c := g.Copy()
	if _, err := g.Move(Move{From: 12, To: 9, Player: 0}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.Board.Points[12] != 6 || len(c.Dice) != 2 || len(c.Moves) != 0 {
		t.Fatal("copy shares state with the original game")
	}

	version := g.Version
	g.Reset()
	if g.Phase != PhaseSetup || g.Winner != NoPlayer || g.MoveCount != 0 {
		t.Fatalf("unexpected state after reset: phase %s winner %d", g.Phase, g.Winner)
	} else if g.Players[0].Name != "alice" {
		t.Fatal("reset discarded player names")
	} else if g.Version <= version {
		t.Fatal("reset did not advance the version")
	} else if *g.Board != *NewBoard() {
		t.Fatal("reset did not restore the starting position")
	}
}

func TestPhaseJSON(t *testing.T) {
	g := NewGame()
	g.Start(1)
	buf, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if !strings.Contains(string(buf), `"Phase":"playing"`) {
		t.Fatalf("expected phase as text, got %s", buf)
	}

	decoded := &Game{}
	if err := json.Unmarshal(buf, decoded); err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if decoded.Phase != PhasePlaying || decoded.Turn != 1 || decoded.Winner != NoPlayer {
		t.Fatalf("unexpected decoded game: %+v", decoded)
	}
}

func TestBoardState(t *testing.T) {
	g := NewGame()
	g.Players[0].Name = "alice"
	g.Start(0)
	state := string(g.BoardState(0))
	if !strings.Contains(state, "BAR") || !strings.Contains(state, "alice (you)") {
		t.Fatalf("unexpected board state:\n%s", state)
	} else if !strings.Contains(state, "Player 1 to roll") {
		t.Fatalf("expected roll prompt in board state:\n%s", state)
	} else if strings.Count(state, "195 pips") != 2 {
		t.Fatalf("expected pip counts in board state:\n%s", state)
	}
}
