package bgammon

// GameState is a snapshot of a game as seen by one participant.
type GameState struct {
	*Game
	PlayerNumber int8
	Spectating   bool
	Available    []Move // Legal moves.
}

// NewGameState returns a snapshot of the game for the player. The game is
// copied, so later changes do not affect the snapshot.
func NewGameState(g *Game, playerNumber int8, spectating bool) GameState {
	c := g.Copy()
	return GameState{
		Game:         c,
		PlayerNumber: playerNumber,
		Spectating:   spectating,
		Available:    c.Available(),
	}
}

// OpponentPlayer returns the opponent of the local player.
func (g *GameState) OpponentPlayer() Player {
	return g.Players[Opponent(g.PlayerNumber)]
}

func (g *GameState) LocalPlayer() Player {
	return g.Players[g.PlayerNumber]
}

// MayRoll returns whether the local player may roll the dice.
func (g *GameState) MayRoll() bool {
	return !g.Spectating && g.Phase == PhasePlaying && g.Turn == g.PlayerNumber && !g.Rolled
}

// MayMove returns whether the local player has a move to make.
func (g *GameState) MayMove() bool {
	return !g.Spectating && g.Phase == PhasePlaying && g.Turn == g.PlayerNumber && g.Rolled && len(g.Available) != 0
}
