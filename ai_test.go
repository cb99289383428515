package bgammon

import (
	"strings"
	"testing"
)

func TestChooseMove(t *testing.T) {
	onBar := NewBoard()
	onBar.Points[19] = 0
	onBar.Bar[0] = 1

	blocked := NewBoard()
	blocked.Points[19] = 0
	blocked.Bar[0] = 1
	blocked.Points[23] = -2
	blocked.Points[13] = -4

	held := NewBoard()
	held.Points[19] = 2
	held.Points[17] = 5

	bearOff := &Board{}
	bearOff.Points[2] = 1
	bearOff.Points[4] = 2
	bearOff.Off[0] = 12
	bearOff.Points[20] = -15

	testCases := []struct {
		name   string
		board  *Board
		dice   []int8
		player int8
		move   Move
		pip    int8
		ok     bool
	}{
		{"highest point first", NewBoard(), []int8{3, 1}, 0, Move{From: 19, To: 16, Player: 0}, 3, true},
		{"dice order", NewBoard(), []int8{1, 3}, 0, Move{From: 19, To: 18, Player: 0}, 1, true},
		{"hit blot", NewBoard(), []int8{6, 5}, 1, Move{From: 13, To: 19, Player: 1}, 6, true},
		{"skip blocked pip", held, []int8{6, 5}, 1, Move{From: 13, To: 18, Player: 1}, 5, true},
		{"bar first", onBar, []int8{1, 4}, 0, Move{From: SpaceBar, To: 21, Player: 0}, 4, true},
		{"bar blocked", blocked, []int8{2, 2, 2, 2}, 0, Move{}, 0, false},
		{"bear off before moving", bearOff, []int8{4, 1}, 0, Move{From: 4, To: SpaceOff, Player: 0}, 4, true},
		{"move before smaller bear off", bearOff, []int8{1, 2}, 0, Move{From: 4, To: 3, Player: 0}, 1, true},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			move, pip, ok := ChooseMove(c.board, c.dice, c.player)
			if ok != c.ok {
				t.Fatalf("expected ok %v, got %v", c.ok, ok)
			} else if move != c.move || pip != c.pip {
				t.Fatalf("expected %s with %d, got %s with %d", FormatMove(c.move), c.pip, FormatMove(move), pip)
			}
		})
	}
}

func TestPlayTurn(t *testing.T) {
	g := NewGame()
	g.Start(1)
	if _, err := g.Roll(1, 6, 5); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	moves, err := PlayTurn(g, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %v", moves)
	}
	if g.Turn != 0 {
		t.Fatalf("expected turn to pass, got %d", g.Turn)
	}
}

func TestPlayTurnUsesChosenPip(t *testing.T) {
	g := NewGame()
	g.Board = &Board{}
	g.Board.Points[3] = 2
	g.Board.Points[1] = 1
	g.Board.Off[0] = 12
	g.Board.Points[20] = -15
	g.Start(0)
	if _, err := g.Roll(0, 6, 4); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	move, pip, ok := ChooseMove(g.Board, g.Dice, 0)
	if !ok || move != (Move{From: 3, To: SpaceOff, Player: 0}) || pip != 6 {
		t.Fatalf("unexpected choice %s with %d", FormatMove(move), pip)
	}

	moves, err := PlayTurn(g, 0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %v", moves)
	} else if g.Turn != 1 || g.Board.Points[3] != 0 || g.Board.Points[1] != 1 {
		t.Fatalf("unexpected board %v after turn", g.Board.Points)
	} else if !strings.HasSuffix(g.LastMove, "with a 4") {
		t.Fatalf("expected the 4 to be used last, got %s", g.LastMove)
	}
}
