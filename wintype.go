package bgammon

type WinType int8

const (
	WinSingle     WinType = 1
	WinGammon     WinType = 2
	WinBackgammon WinType = 3
)

func (w WinType) String() string {
	switch w {
	case WinGammon:
		return "gammon"
	case WinBackgammon:
		return "backgammon"
	default:
		return "single"
	}
}

// WinTypeOf returns the scoring multiplier earned by the winner. A loser who
// has not borne off any checkers is gammoned, and backgammoned when a checker
// also remains on the bar or in the winner's home board.
func WinTypeOf(b *Board, winner int8) WinType {
	loser := Opponent(winner)
	if b.Off[loser] != 0 {
		return WinSingle
	}
	if b.Bar[loser] != 0 {
		return WinBackgammon
	}
	from, to := HomeRange(winner)
	for point := from; point <= to; point++ {
		if b.Checkers(point, loser) != 0 {
			return WinBackgammon
		}
	}
	return WinGammon
}
