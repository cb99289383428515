package bgammon

// LegalMove is a destination reachable from a point with a single pip.
type LegalMove struct {
	To  int8
	Pip int8
}

// EntryPoint returns the point a checker on the bar enters with the pip.
func EntryPoint(pip int8, player int8) int8 {
	if player == 0 {
		return 25 - pip
	}
	return pip
}

// destination returns the point reached when moving from a space by pip. The
// result lies outside 1-24 when the move leaves the board.
func destination(from int8, pip int8, player int8) int8 {
	if from == SpaceBar {
		return EntryPoint(pip, player)
	}
	return from + Direction(player)*pip
}

// bearOffDistance returns the pip that bears a checker off exactly from the
// point.
func bearOffDistance(from int8, player int8) int8 {
	if player == 0 {
		return from
	}
	return 25 - from
}

// DestinationLegal returns whether the player may land on a point holding the
// signed value. Empty points, the player's own points and opposing blots are
// legal. Points held by two or more opposing checkers are blocked.
func DestinationLegal(value int8, player int8) bool {
	return OpponentCheckers(value, player) <= 1
}

// CanEnterFromBar returns whether a checker on the bar may enter with the pip.
func CanEnterFromBar(b *Board, pip int8, player int8) bool {
	if pip < 1 || pip > 6 {
		return false
	}
	return DestinationLegal(b.Points[EntryPoint(pip, player)], player)
}

// AllPiecesHome returns whether the player has no checkers on the bar and
// every checker on the board lies within the player's home board.
func AllPiecesHome(b *Board, player int8) bool {
	if b.Bar[player] != 0 {
		return false
	}
	for point := int8(1); point <= 24; point++ {
		if b.Checkers(point, player) != 0 && !InHome(point, player) {
			return false
		}
	}
	return true
}

// farthestPoint returns the occupied point of the player which lies farthest
// from bearing off, or 0 when the player has no checkers on the board.
func farthestPoint(b *Board, player int8) int8 {
	if player == 0 {
		for point := int8(24); point >= 1; point-- {
			if b.Checkers(point, player) != 0 {
				return point
			}
		}
		return 0
	}
	for point := int8(1); point <= 24; point++ {
		if b.Checkers(point, player) != 0 {
			return point
		}
	}
	return 0
}

// CanBearOff returns whether the player may bear off a checker from the point
// using the pip. All checkers must be home. The pip must match the distance
// exactly, or exceed it when the point is the farthest occupied point.
func CanBearOff(b *Board, from int8, pip int8, player int8) bool {
	if from < 1 || from > 24 || b.Checkers(from, player) == 0 || !AllPiecesHome(b, player) {
		return false
	}
	needed := bearOffDistance(from, player)
	if pip == needed {
		return true
	} else if pip < needed {
		return false
	}
	return farthestPoint(b, player) == from
}

// LegalMovesFrom returns each destination reachable from the space with one
// of the available pips. Destination SpaceOff represents bearing off.
func LegalMovesFrom(b *Board, dice []int8, from int8, player int8) []LegalMove {
	if b.Bar[player] > 0 && from != SpaceBar {
		return nil
	} else if from == SpaceBar {
		if b.Bar[player] == 0 {
			return nil
		}
	} else if b.Checkers(from, player) == 0 {
		return nil
	}

	var moves []LegalMove
	for _, pip := range uniquePips(dice) {
		to := destination(from, pip, player)
		if to >= 1 && to <= 24 {
			if DestinationLegal(b.Points[to], player) {
				moves = append(moves, LegalMove{To: to, Pip: pip})
			}
			continue
		}
		if from != SpaceBar && CanBearOff(b, from, pip, player) {
			moves = append(moves, LegalMove{To: SpaceOff, Pip: pip})
		}
	}
	return moves
}

// LegalMoves returns every distinct single-pip move available to the player.
func LegalMoves(b *Board, dice []int8, player int8) []Move {
	var moves []Move
	add := func(from int8) {
		for _, lm := range LegalMovesFrom(b, dice, from, player) {
			m := Move{From: from, To: lm.To, Player: player}
			var found bool
			for _, existing := range moves {
				if existing == m {
					found = true
					break
				}
			}
			if !found {
				moves = append(moves, m)
			}
		}
	}
	if b.Bar[player] > 0 {
		add(SpaceBar)
		return moves
	}
	for point := int8(1); point <= 24; point++ {
		add(point)
	}
	return moves
}

// HasLegalMove returns whether any checker of the player may move with any of
// the available pips.
func HasLegalMove(b *Board, dice []int8, player int8) bool {
	if len(ValidDiceValues(dice)) == 0 {
		return false
	}
	if b.Bar[player] > 0 {
		return len(LegalMovesFrom(b, dice, SpaceBar, player)) != 0
	}
	for point := int8(1); point <= 24; point++ {
		if len(LegalMovesFrom(b, dice, point, player)) != 0 {
			return true
		}
	}
	return false
}

// PipForMove returns the pip a proposed move consumes, or a MoveError naming
// the rule it breaks.
func PipForMove(b *Board, dice []int8, move Move) (int8, *MoveError) {
	player := move.Player
	if player != 0 && player != 1 {
		return 0, illegal(move, ReasonInvalidSpace)
	} else if move.From < SpaceBar || move.From > 24 || move.To < 1 || move.To > SpaceOff || move.From == move.To {
		return 0, illegal(move, ReasonInvalidSpace)
	}

	if b.Bar[player] > 0 && move.From != SpaceBar {
		return 0, illegal(move, ReasonBarFirst)
	}

	if move.From == SpaceBar {
		if b.Bar[player] == 0 {
			return 0, illegal(move, ReasonNoChecker)
		} else if move.To == SpaceOff {
			return 0, illegal(move, ReasonInvalidSpace)
		}
		pip := move.To
		if player == 0 {
			pip = 25 - move.To
		}
		if !HavePip(dice, pip) {
			return 0, illegal(move, ReasonNoMatchingDie)
		} else if !CanEnterFromBar(b, pip, player) {
			return 0, illegal(move, ReasonBlocked)
		}
		return pip, nil
	}

	if b.Checkers(move.From, player) == 0 {
		return 0, illegal(move, ReasonNoChecker)
	}

	if move.To == SpaceOff {
		if !AllPiecesHome(b, player) {
			return 0, illegal(move, ReasonNotAllHome)
		}
		needed := bearOffDistance(move.From, player)
		if HavePip(dice, needed) {
			return needed, nil
		}
		var overshoot int8
		for _, pip := range ValidDiceValues(dice) {
			if pip > needed && (overshoot == 0 || pip < overshoot) {
				overshoot = pip
			}
		}
		if overshoot == 0 {
			return 0, illegal(move, ReasonNoMatchingDie)
		} else if !CanBearOff(b, move.From, overshoot, player) {
			return 0, illegal(move, ReasonBearOffFarthest)
		}
		return overshoot, nil
	}

	distance := (move.To - move.From) * Direction(player)
	if distance <= 0 {
		return 0, illegal(move, ReasonWrongDirection)
	} else if !HavePip(dice, distance) {
		return 0, illegal(move, ReasonNoMatchingDie)
	} else if !DestinationLegal(b.Points[move.To], player) {
		return 0, illegal(move, ReasonBlocked)
	}
	return distance, nil
}

// CheckPip returns a MoveError when the move may not be played with the pip.
// Bearing off may use any pip allowed by CanBearOff, so a pip larger than
// needed is accepted from the farthest occupied point even when an exact die
// is also available.
func CheckPip(b *Board, dice []int8, move Move, pip int8) *MoveError {
	if _, err := PipForMove(b, dice, move); err != nil {
		return err
	} else if !HavePip(dice, pip) {
		return illegal(move, ReasonNoMatchingDie)
	}

	player := move.Player
	switch {
	case move.To == SpaceOff:
		if pip < bearOffDistance(move.From, player) {
			return illegal(move, ReasonNoMatchingDie)
		} else if !CanBearOff(b, move.From, pip, player) {
			return illegal(move, ReasonBearOffFarthest)
		}
	case move.To != destination(move.From, pip, player):
		return illegal(move, ReasonNoMatchingDie)
	}
	return nil
}

// IsHit returns whether the move lands on an opposing blot.
func IsHit(b *Board, move Move) bool {
	if move.To < 1 || move.To > 24 {
		return false
	}
	return OpponentCheckers(b.Points[move.To], move.Player) == 1
}

// Apply returns the board resulting from the move. The move is not validated;
// callers must check it with PipForMove or LegalMovesFrom first.
func Apply(b *Board, move Move) *Board {
	result := b.Copy()
	player := move.Player
	var sign int8 = 1
	if player == 1 {
		sign = -1
	}

	if move.From == SpaceBar {
		result.Bar[player]--
	} else {
		result.Points[move.From] -= sign
	}

	if move.To == SpaceOff {
		result.Off[player]++
		return result
	}

	value := result.Points[move.To]
	switch {
	case value == 0:
		result.Points[move.To] = sign
	case PlayerCheckers(value, player) != 0:
		result.Points[move.To] += sign
	default:
		result.Bar[Opponent(player)]++
		result.Points[move.To] = sign
	}
	return result
}

// CheckVictory returns the player who has borne off all checkers.
func CheckVictory(b *Board) (int8, bool) {
	for player := int8(0); player < 2; player++ {
		if b.Off[player] >= CheckersPerPlayer {
			return player, true
		}
	}
	return NoPlayer, false
}
