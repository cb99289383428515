package bgammon

// ChooseMove selects the next move of the player with a greedy first-match
// policy. Checkers on the bar enter with the first pip in dice order which
// lands on a legal point. Otherwise owned points are visited from the highest
// numbered to the lowest, trying each pip in dice order, bearing off before
// moving on the board. ok is false when no move is possible and the turn
// should be skipped.
func ChooseMove(b *Board, dice []int8, player int8) (move Move, pip int8, ok bool) {
	pips := ValidDiceValues(dice)

	if b.Bar[player] > 0 {
		for _, pip := range pips {
			if CanEnterFromBar(b, pip, player) {
				return Move{From: SpaceBar, To: EntryPoint(pip, player), Player: player}, pip, true
			}
		}
		return Move{}, 0, false
	}

	for point := int8(24); point >= 1; point-- {
		if b.Checkers(point, player) == 0 {
			continue
		}
		for _, pip := range pips {
			if CanBearOff(b, point, pip, player) {
				return Move{From: point, To: SpaceOff, Player: player}, pip, true
			}
			to := destination(point, pip, player)
			if to >= 1 && to <= 24 && DestinationLegal(b.Points[to], player) {
				return Move{From: point, To: to, Player: player}, pip, true
			}
		}
	}
	return Move{}, 0, false
}

// PlayTurn plays moves chosen by ChooseMove for the player until the turn
// passes or the game ends. The game must already be rolled.
func PlayTurn(g *Game, player int8) ([]Move, error) {
	var played []Move
	for g.Phase == PhasePlaying && g.Turn == player && g.Rolled {
		move, pip, ok := ChooseMove(g.Board, g.Dice, player)
		if !ok {
			break
		}
		if err := g.MoveWithPip(move, pip); err != nil {
			return played, err
		}
		played = append(played, move)
	}
	return played, nil
}
