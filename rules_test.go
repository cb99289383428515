package bgammon

import (
	"errors"
	"reflect"
	"testing"
)

func TestDestinationLegal(t *testing.T) {
	testCases := []struct {
		value  int8
		player int8
		legal  bool
	}{
		{0, 0, true},
		{3, 0, true},
		{-1, 0, true},
		{-2, 0, false},
		{-5, 0, false},
		{0, 1, true},
		{-4, 1, true},
		{1, 1, true},
		{2, 1, false},
	}
	for _, c := range testCases {
		if legal := DestinationLegal(c.value, c.player); legal != c.legal {
			t.Errorf("DestinationLegal(%d, %d) = %v, expected %v", c.value, c.player, legal, c.legal)
		}
	}
}

func TestEnterFromBar(t *testing.T) {
	b := &Board{}
	b.Bar[1] = 1
	b.Points[24] = -14
	b.Points[3] = 2
	b.Points[6] = 13

	if CanEnterFromBar(b, 3, 1) {
		t.Fatal("expected entry on a point held by two opposing checkers to be blocked")
	} else if !CanEnterFromBar(b, 4, 1) {
		t.Fatal("expected entry on an empty point to be legal")
	}

	moves := LegalMovesFrom(b, []int8{3, 4}, SpaceBar, 1)
	expected := []LegalMove{{To: 4, Pip: 4}}
	if !reflect.DeepEqual(moves, expected) {
		t.Fatalf("unexpected bar moves: expected %v, got %v", expected, moves)
	}

	if moves := LegalMovesFrom(b, []int8{3, 4}, 24, 1); moves != nil {
		t.Fatalf("expected no moves from the board while on the bar, got %v", moves)
	}

	result := Apply(b, Move{From: SpaceBar, To: 4, Player: 1})
	if result.Bar[1] != 0 || result.Points[4] != -1 {
		t.Fatalf("unexpected board after entering: bar %v point 4 %d", result.Bar, result.Points[4])
	} else if b.Bar[1] != 1 {
		t.Fatal("Apply modified the original board")
	}
}

func TestBearOffPrecedence(t *testing.T) {
	b := &Board{}
	b.Points[3] = 1
	b.Points[5] = 1
	b.Off[0] = 13
	b.Points[13] = -15

	testCases := []struct {
		from  int8
		pip   int8
		legal bool
	}{
		{3, 3, true},
		{5, 5, true},
		{5, 4, false},
		{3, 6, false},
		{5, 6, true},
		{3, 4, false},
	}
	for _, c := range testCases {
		if legal := CanBearOff(b, c.from, c.pip, 0); legal != c.legal {
			t.Errorf("CanBearOff(%d, %d) = %v, expected %v", c.from, c.pip, legal, c.legal)
		}
	}

	_, err := PipForMove(b, []int8{6}, Move{From: 3, To: SpaceOff, Player: 0})
	if err == nil || err.Reason != ReasonBearOffFarthest {
		t.Fatalf("expected %s, got %v", ReasonBearOffFarthest, err)
	}
	pip, err := PipForMove(b, []int8{6}, Move{From: 5, To: SpaceOff, Player: 0})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if pip != 6 {
		t.Fatalf("expected pip 6, got %d", pip)
	}

	pip, err = PipForMove(b, []int8{6, 5}, Move{From: 5, To: SpaceOff, Player: 0})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if pip != 5 {
		t.Fatalf("expected exact pip 5 to be used before 6, got %d", pip)
	}
}

func TestBearOffPlayerOne(t *testing.T) {
	b := &Board{}
	b.Points[22] = -2
	b.Off[1] = 13
	b.Points[12] = 15

	if !CanBearOff(b, 22, 3, 1) {
		t.Fatal("expected exact bear off from 22 with a 3")
	} else if !CanBearOff(b, 22, 6, 1) {
		t.Fatal("expected bear off from the farthest point with a larger pip")
	} else if CanBearOff(b, 22, 2, 1) {
		t.Fatal("expected bear off with a smaller pip to be illegal")
	}
}

func TestLegalMovesFromIdempotent(t *testing.T) {
	b := NewBoard()
	before := *b
	dice := []int8{6, 5}
	for from := int8(0); from <= 24; from++ {
		first := LegalMovesFrom(b, dice, from, 0)
		second := LegalMovesFrom(b, dice, from, 0)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("point %d: results differ: %v and %v", from, first, second)
		}
	}
	if *b != before {
		t.Fatal("LegalMovesFrom modified the board")
	}
}

func TestLegalMovesUniquePips(t *testing.T) {
	b := NewBoard()
	moves := LegalMovesFrom(b, []int8{2, 2, 2, 2}, 12, 0)
	expected := []LegalMove{{To: 10, Pip: 2}}
	if !reflect.DeepEqual(moves, expected) {
		t.Fatalf("expected %v, got %v", expected, moves)
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	b := &Board{}
	b.Points[10] = 1
	b.Points[6] = 14
	b.Points[7] = -1
	b.Points[19] = -14

	steps := []struct {
		move  Move
		check func(b *Board) bool
	}{
		{Move{From: 10, To: 7, Player: 0}, func(b *Board) bool { return b.Bar[1] == 1 && b.Points[7] == 1 && b.Points[10] == 0 }},
		{Move{From: SpaceBar, To: 4, Player: 1}, func(b *Board) bool { return b.Bar[1] == 0 && b.Points[4] == -1 }},
		{Move{From: 4, To: 7, Player: 1}, func(b *Board) bool { return b.Bar[0] == 1 && b.Points[7] == -1 && b.Points[4] == 0 }},
	}
	for i, step := range steps {
		if !IsHit(b, step.move) && i != 1 {
			t.Fatalf("step %d: expected %s to hit", i, FormatMove(step.move))
		}
		b = Apply(b, step.move)
		if err := b.Validate(); err != nil {
			t.Fatalf("step %d: %s", i, err)
		} else if !step.check(b) {
			t.Fatalf("step %d: unexpected board %v bar %v", i, b.Points, b.Bar)
		}
	}
}

func TestPipForMove(t *testing.T) {
	onBar := NewBoard()
	onBar.Points[19] = 0
	onBar.Bar[0] = 1

	testCases := []struct {
		name   string
		board  *Board
		dice   []int8
		move   Move
		pip    int8
		reason MoveReason
	}{
		{"invalid", NewBoard(), []int8{3}, Move{From: 30, To: 27, Player: 0}, 0, ReasonInvalidSpace},
		{"same", NewBoard(), []int8{3}, Move{From: 12, To: 12, Player: 0}, 0, ReasonInvalidSpace},
		{"barfirst", onBar, []int8{3}, Move{From: 12, To: 9, Player: 0}, 0, ReasonBarFirst},
		{"enter", onBar, []int8{3}, Move{From: SpaceBar, To: 22, Player: 0}, 3, 0},
		{"enterblocked", onBar, []int8{1}, Move{From: SpaceBar, To: 24, Player: 0}, 0, ReasonBlocked},
		{"nochecker", NewBoard(), []int8{1}, Move{From: 2, To: 1, Player: 0}, 0, ReasonNoChecker},
		{"nobar", NewBoard(), []int8{1}, Move{From: SpaceBar, To: 24, Player: 0}, 0, ReasonNoChecker},
		{"backward0", NewBoard(), []int8{3, 5}, Move{From: 12, To: 15, Player: 0}, 0, ReasonWrongDirection},
		{"backward1", NewBoard(), []int8{3, 5}, Move{From: 13, To: 10, Player: 1}, 0, ReasonWrongDirection},
		{"nodie", NewBoard(), []int8{3, 5}, Move{From: 12, To: 8, Player: 0}, 0, ReasonNoMatchingDie},
		{"blocked0", NewBoard(), []int8{4}, Move{From: 12, To: 8, Player: 0}, 0, ReasonBlocked},
		{"blocked1", NewBoard(), []int8{4}, Move{From: 13, To: 17, Player: 1}, 0, ReasonBlocked},
		{"nothome", NewBoard(), []int8{6, 5}, Move{From: 1, To: SpaceOff, Player: 0}, 0, ReasonNotAllHome},
		{"valid0", NewBoard(), []int8{3}, Move{From: 12, To: 9, Player: 0}, 3, 0},
		{"valid1", NewBoard(), []int8{5}, Move{From: 13, To: 18, Player: 1}, 5, 0},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			pip, err := PipForMove(c.board, c.dice, c.move)
			if c.reason == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				} else if pip != c.pip {
					t.Fatalf("expected pip %d, got %d", c.pip, pip)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s, got pip %d", c.reason, pip)
			} else if err.Reason != c.reason {
				t.Fatalf("expected %s, got %s", c.reason, err.Reason)
			}
		})
	}
}

func TestCheckPip(t *testing.T) {
	home := &Board{}
	home.Points[3] = 2
	home.Points[1] = 1
	home.Off[0] = 12
	home.Points[20] = -15

	testCases := []struct {
		name   string
		board  *Board
		dice   []int8
		move   Move
		pip    int8
		reason MoveReason
	}{
		{"exact", home, []int8{6, 3}, Move{From: 3, To: SpaceOff, Player: 0}, 3, 0},
		{"overshoot with exact available", home, []int8{6, 3}, Move{From: 3, To: SpaceOff, Player: 0}, 6, 0},
		{"overshoot not farthest", home, []int8{6, 3}, Move{From: 1, To: SpaceOff, Player: 0}, 6, ReasonBearOffFarthest},
		{"short", home, []int8{2, 3}, Move{From: 3, To: SpaceOff, Player: 0}, 2, ReasonNoMatchingDie},
		{"unrolled", home, []int8{3}, Move{From: 3, To: SpaceOff, Player: 0}, 6, ReasonNoMatchingDie},
		{"distance", NewBoard(), []int8{3, 1}, Move{From: 12, To: 9, Player: 0}, 1, ReasonNoMatchingDie},
		{"regular", NewBoard(), []int8{3, 1}, Move{From: 12, To: 9, Player: 0}, 3, 0},
		{"enter", onBarBoard(), []int8{4, 1}, Move{From: SpaceBar, To: 21, Player: 0}, 4, 0},
		{"enter distance", onBarBoard(), []int8{4, 3}, Move{From: SpaceBar, To: 21, Player: 0}, 3, ReasonNoMatchingDie},
		{"wrong direction", NewBoard(), []int8{3}, Move{From: 12, To: 15, Player: 0}, 3, ReasonWrongDirection},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckPip(c.board, c.dice, c.move, c.pip)
			if c.reason == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s", c.reason)
			} else if err.Reason != c.reason {
				t.Fatalf("expected %s, got %s", c.reason, err.Reason)
			}
		})
	}
}

func onBarBoard() *Board {
	b := NewBoard()
	b.Points[19] = 0
	b.Bar[0] = 1
	return b
}

func TestHasLegalMoveMatchesLegalMoves(t *testing.T) {
	b := NewBoard()
	for roll1 := int8(1); roll1 <= 6; roll1++ {
		for roll2 := int8(1); roll2 <= 6; roll2++ {
			dice := NewDice(roll1, roll2)
			for player := int8(0); player < 2; player++ {
				has := HasLegalMove(b, dice, player)
				moves := LegalMoves(b, dice, player)
				if has != (len(moves) != 0) {
					t.Fatalf("roll %d-%d player %d: HasLegalMove %v with %d moves", roll1, roll2, player, has, len(moves))
				}
				for _, move := range moves {
					if _, err := PipForMove(b, dice, move); err != nil {
						t.Fatalf("roll %d-%d: listed move rejected: %s", roll1, roll2, err)
					}
				}
			}
		}
	}
}

func TestMoveErrorUnwrap(t *testing.T) {
	var err error = illegal(Move{From: 12, To: 8}, ReasonBlocked)
	var moveErr *MoveError
	if !errors.As(err, &moveErr) {
		t.Fatal("expected a *MoveError")
	} else if err.Error() != "illegal move 12/8: cannot land on 2+ opponent pieces" {
		t.Fatalf("unexpected message: %s", err)
	}
}
