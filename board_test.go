package bgammon

import "testing"

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("starting position is invalid: %s", err)
	}
	for player := int8(0); player < 2; player++ {
		if pips := b.PipCount(player); pips != 195 {
			t.Errorf("player %d: expected pip count 195, got %d", player, pips)
		}
	}

	b.Points[1] = 3
	if err := b.Validate(); err == nil {
		t.Fatal("expected an extra checker to fail validation")
	}
}

func TestBoardCopy(t *testing.T) {
	b := NewBoard()
	c := b.Copy()
	c.Points[1] = 0
	c.Bar[0] = 2
	if b.Points[1] != 2 || b.Bar[0] != 0 {
		t.Fatal("copy shares state with the original board")
	}
}

func TestCheckers(t *testing.T) {
	b := NewBoard()
	testCases := []struct {
		point    int8
		player   int8
		checkers int8
	}{
		{1, 0, 2},
		{1, 1, 0},
		{6, 1, 1},
		{6, 0, 0},
		{0, 0, 0},
		{25, 1, 0},
	}
	for _, c := range testCases {
		if checkers := b.Checkers(c.point, c.player); checkers != c.checkers {
			t.Errorf("Checkers(%d, %d) = %d, expected %d", c.point, c.player, checkers, c.checkers)
		}
	}
}
