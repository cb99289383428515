package bgammon

// NoPlayer is used when no player applies, such as the winner of a game in
// progress.
const NoPlayer int8 = -1

type Player struct {
	Number int8 // 0 moves toward point 1, 1 moves toward point 24.
	Name   string
	AI     bool
}

func NewPlayer(number int8) Player {
	return Player{
		Number: number,
	}
}

// Opponent returns the index of the other player.
func Opponent(player int8) int8 {
	if player == 0 {
		return 1
	}
	return 0
}

// Direction returns the step applied to point numbers when the player moves.
func Direction(player int8) int8 {
	if player == 0 {
		return -1
	}
	return 1
}

// HomeRange returns the first and last point of the player's home board.
func HomeRange(player int8) (from int8, to int8) {
	if player == 0 {
		return 1, 6
	}
	return 19, 24
}

// InHome returns whether the point lies within the player's home board.
func InHome(point int8, player int8) bool {
	from, to := HomeRange(player)
	return point >= from && point <= to
}
