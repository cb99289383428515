package bgammon

import (
	"fmt"
	"strconv"
	"strings"
)

type Move struct {
	From   int8
	To     int8
	Player int8
}

// ParseSpace parses a point number, "bar" or "off". It returns -1 when the
// space is invalid.
func ParseSpace(space string) int8 {
	space = strings.ToLower(strings.TrimSpace(space))
	switch space {
	case "bar", "b":
		return SpaceBar
	case "off", "o":
		return SpaceOff
	}
	v, err := strconv.Atoi(space)
	if err != nil || v < 1 || v > 24 {
		return -1
	}
	return int8(v)
}

// FormatSpace formats a space using the notation accepted by ParseSpace.
func FormatSpace(space int8) string {
	switch space {
	case SpaceBar:
		return "bar"
	case SpaceOff:
		return "off"
	}
	return strconv.Itoa(int(space))
}

// ParseMove parses a move in the form FROM/TO.
func ParseMove(s string, player int8) (Move, error) {
	split := strings.Split(s, "/")
	if len(split) != 2 {
		return Move{}, fmt.Errorf("moves must be in the form FROM/TO: %s", s)
	}
	from, to := ParseSpace(split[0]), ParseSpace(split[1])
	if from == -1 || to == -1 || from == SpaceOff || to == SpaceBar {
		return Move{}, fmt.Errorf("invalid move: %s", s)
	}
	return Move{From: from, To: to, Player: player}, nil
}

// ParsePlay parses a move in the form FROM/TO, optionally followed by the pip
// it uses as FROM/TO:PIP. The returned pip is zero when none is given.
func ParsePlay(s string, player int8) (Move, int8, error) {
	notation, pipText, hasPip := strings.Cut(s, ":")
	move, err := ParseMove(notation, player)
	if err != nil || !hasPip {
		return move, 0, err
	}
	pip, err := strconv.Atoi(pipText)
	if err != nil || pip < 1 || pip > 6 {
		return Move{}, 0, fmt.Errorf("invalid pip: %s", s)
	}
	return move, int8(pip), nil
}

// FormatPlay formats a move and the pip it uses in the notation accepted by
// ParsePlay.
func FormatPlay(move Move, pip int8) string {
	return FormatMove(move) + ":" + strconv.Itoa(int(pip))
}

func FormatMove(move Move) string {
	return FormatSpace(move.From) + "/" + FormatSpace(move.To)
}

func FormatMoves(moves []Move) string {
	var b strings.Builder
	for i, move := range moves {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatMove(move))
	}
	return b.String()
}

// DescribeMove returns a human-readable description of an applied move.
func DescribeMove(move Move, pip int8, hit bool) string {
	var action string
	switch {
	case move.From == SpaceBar:
		action = fmt.Sprintf("entered on %d", move.To)
	case move.To == SpaceOff:
		action = fmt.Sprintf("bore off from %d", move.From)
	default:
		action = fmt.Sprintf("moved %d to %d", move.From, move.To)
	}
	description := fmt.Sprintf("Player %d %s with a %d", move.Player+1, action, pip)
	if hit {
		description += " and hit a blot"
	}
	return description
}
