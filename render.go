package bgammon

import (
	"bytes"
	"fmt"
	"strconv"
)

var boardTop = []byte("+13-14-15-16-17-18-+---+19-20-21-22-23-24-+")
var boardBottom = []byte("+12-11-10--9--8--7-+---+-6--5--4--3--2--1-+")

const VerticalBar rune = '│' // │

const maxRenderedCheckers = 5

// renderPoint returns the three character cell of a point at the row, where
// row 1 is nearest the edge of the board.
func renderPoint(value int8, row int) []byte {
	color := "x"
	if value < 0 {
		color = "o"
		value = -value
	}
	switch {
	case value == 0 || row > maxRenderedCheckers:
		return []byte("   ")
	case row == maxRenderedCheckers && value > maxRenderedCheckers:
		return []byte(fmt.Sprintf("%2d ", value))
	case int(value) >= row:
		return []byte(" " + color + " ")
	}
	return []byte("   ")
}

func renderBar(count int8, color string, row int) []byte {
	if int(count) >= row && row <= maxRenderedCheckers {
		return []byte(" " + color + " ")
	}
	return []byte("   ")
}

// BoardState returns a plain text rendering of the game for the player.
// Player 0 checkers are drawn as x and player 1 checkers as o.
func (g *Game) BoardState(player int8) []byte {
	var t bytes.Buffer

	t.Write(boardTop)
	t.WriteByte('\n')
	for row := 1; row <= maxRenderedCheckers; row++ {
		t.WriteRune(VerticalBar)
		for point := int8(13); point <= 24; point++ {
			t.Write(renderPoint(g.Board.Points[point], row))
			if point == 18 {
				t.WriteRune(VerticalBar)
				t.Write(renderBar(g.Board.Bar[1], "o", row))
				t.WriteRune(VerticalBar)
			}
		}
		t.WriteRune(VerticalBar)
		if row == 1 {
			t.WriteString("  o " + playerLabel(g.Players[1], player == 1))
			t.WriteString(g.countLabel(1))
		}
		t.WriteByte('\n')
	}

	t.WriteRune(VerticalBar)
	t.WriteString("                  ")
	t.WriteRune(VerticalBar)
	t.WriteString("BAR")
	t.WriteRune(VerticalBar)
	t.WriteString("                  ")
	t.WriteRune(VerticalBar)
	t.WriteString("  " + g.diceLabel())
	t.WriteByte('\n')

	for row := maxRenderedCheckers; row >= 1; row-- {
		t.WriteRune(VerticalBar)
		for point := int8(12); point >= 1; point-- {
			t.Write(renderPoint(g.Board.Points[point], row))
			if point == 7 {
				t.WriteRune(VerticalBar)
				t.Write(renderBar(g.Board.Bar[0], "x", row))
				t.WriteRune(VerticalBar)
			}
		}
		t.WriteRune(VerticalBar)
		if row == 1 {
			t.WriteString("  x " + playerLabel(g.Players[0], player == 0))
			t.WriteString(g.countLabel(0))
		}
		t.WriteByte('\n')
	}
	t.Write(boardBottom)
	t.WriteByte('\n')
	return t.Bytes()
}

func playerLabel(p Player, local bool) string {
	name := p.Name
	if name == "" {
		name = "Waiting..."
	}
	if local {
		name += " (you)"
	}
	return name
}

// countLabel returns the pip count of the player, followed by the number of
// checkers borne off once there are any.
func (g *Game) countLabel(player int8) string {
	label := fmt.Sprintf("  %d pips", g.Board.PipCount(player))
	if g.Board.Off[player] != 0 {
		label += fmt.Sprintf("  %d off", g.Board.Off[player])
	}
	return label
}

func (g *Game) diceLabel() string {
	switch g.Phase {
	case PhaseSetup:
		return "Waiting for players"
	case PhaseFinished:
		if g.Winner == NoPlayer {
			return "Game over"
		}
		return "Winner: player " + strconv.Itoa(int(g.Winner)+1)
	}
	if !g.Rolled {
		return fmt.Sprintf("Player %d to roll", g.Turn+1)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Player %d:", g.Turn+1)
	for _, pip := range g.Dice {
		fmt.Fprintf(&b, " %d", pip)
	}
	return b.String()
}
