package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"codeberg.org/tslocum/gotext"
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
)

const (
	defaultSkipDelay = 1500 * time.Millisecond
	defaultAIDelay   = 750 * time.Millisecond
)

// AIName is the name of the computer player.
const AIName = "BOT_greedy"

var matchPasswordParams = &argon2id.Params{
	Memory:      16 * 1024,
	Iterations:  2,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// scheduleFunc runs task after delay on the goroutine which owns the game.
type scheduleFunc func(delay time.Duration, task func()) *time.Timer

type serverGame struct {
	id         int
	created    int64
	active     int64
	name       []byte
	password   string // argon2id hash.
	client1    *serverClient
	client2    *serverClient
	spectators []*serverClient
	forfeit    int8
	replay     [][]byte

	skipDelay time.Duration
	aiDelay   time.Duration
	schedule  scheduleFunc
	timer     *time.Timer

	// rollDice returns the values of a roll.
	rollDice func() (int8, int8)
	// record receives the summary of each finished game.
	record func(summary *gameSummary)

	*bgammon.Game
}

func newServerGame(id int, schedule scheduleFunc) *serverGame {
	now := time.Now().Unix()
	return &serverGame{
		id:        id,
		created:   now,
		active:    now,
		forfeit:   bgammon.NoPlayer,
		skipDelay: defaultSkipDelay,
		aiDelay:   defaultAIDelay,
		schedule:  schedule,
		rollDice: func() (int8, int8) {
			return bgammon.RollDie(), bgammon.RollDie()
		},
		Game: bgammon.NewGame(),
	}
}

// setPassword stores a hash of the password required to join the match.
func (g *serverGame) setPassword(password []byte) error {
	if len(password) == 0 {
		g.password = ""
		return nil
	}
	hash, err := argon2id.CreateHash(string(password), matchPasswordParams)
	if err != nil {
		return fmt.Errorf("failed to hash match password: %s", err)
	}
	g.password = hash
	return nil
}

func (g *serverGame) checkPassword(password []byte) bool {
	if g.password == "" {
		return true
	}
	match, err := argon2id.ComparePasswordAndHash(string(password), g.password)
	if err != nil {
		log.Printf("failed to compare match password: %s", err)
		return false
	}
	return match
}

// setAI seats the computer as player 1.
func (g *serverGame) setAI() {
	g.Players[1].Name = AIName
	g.Players[1].AI = true
}

func (g *serverGame) seated() int8 {
	var c int8
	for player := int8(0); player < 2; player++ {
		if g.Players[player].AI || g.seatClient(player) != nil {
			c++
		}
	}
	return c
}

func (g *serverGame) seatClient(player int8) *serverClient {
	switch player {
	case 0:
		return g.client1
	case 1:
		return g.client2
	}
	return nil
}

func (g *serverGame) eachClient(f func(client *serverClient)) {
	if g.client1 != nil {
		f(g.client1)
	}
	if g.client2 != nil {
		f(g.client2)
	}
	for _, spectator := range g.spectators {
		f(spectator)
	}
}

func (g *serverGame) sendBoard(client *serverClient) {
	spectating := g.client1 != client && g.client2 != client
	if client.json {
		playerNumber := client.playerNumber
		if spectating {
			playerNumber = 0
		}
		client.sendEvent(&bgammon.EventBoard{
			GameState: bgammon.NewGameState(g.Game, playerNumber, spectating),
		})
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(g.BoardState(client.playerNumber)))
	for scanner.Scan() {
		client.sendNotice(scanner.Text())
	}
	if g.LastMove != "" {
		client.sendNotice(g.LastMove)
	}
}

func (g *serverGame) addClient(client *serverClient) (spectator bool) {
	var player int8 = bgammon.NoPlayer
	switch {
	case g.Phase != bgammon.PhaseSetup || g.seated() == 2:
		spectator = true
	case g.client1 == nil && g.client2 == nil && !g.Players[1].AI:
		player = int8(bgammon.RandInt(2))
	case g.client1 == nil:
		player = 0
	default:
		player = 1
	}

	if spectator {
		for _, spec := range g.spectators {
			if spec == client {
				return true
			}
		}
		client.playerNumber = bgammon.NoPlayer
		g.spectators = append(g.spectators, client)
		ev := &bgammon.EventJoined{
			GameID:       g.id,
			PlayerNumber: bgammon.NoPlayer,
		}
		ev.Player = string(client.name)
		client.sendEvent(ev)
		g.sendBoard(client)
		return true
	}

	if player == 0 {
		g.client1 = client
	} else {
		g.client2 = client
	}
	g.Players[player].Name = string(client.name)
	client.playerNumber = player

	ev := &bgammon.EventJoined{
		GameID:       g.id,
		PlayerNumber: player,
	}
	ev.Player = string(client.name)
	g.eachClient(func(c *serverClient) {
		c.sendEvent(ev)
	})

	if g.seated() == 2 {
		g.start()
		return false
	}
	g.eachClient(g.sendBoard)
	return false
}

func (g *serverGame) removeClient(client *serverClient) {
	ev := &bgammon.EventLeft{}
	ev.Player = string(client.name)

	var player int8 = bgammon.NoPlayer
	switch {
	case g.client1 == client:
		player = 0
	case g.client2 == client:
		player = 1
	default:
		for i, spectator := range g.spectators {
			if spectator == client {
				g.spectators = append(g.spectators[:i], g.spectators[i+1:]...)
				client.sendEvent(ev)
				client.playerNumber = bgammon.NoPlayer
				return
			}
		}
		return
	}

	client.sendEvent(ev)
	client.playerNumber = bgammon.NoPlayer
	if player == 0 {
		g.client1 = nil
	} else {
		g.client2 = nil
	}
	g.eachClient(func(c *serverClient) {
		c.sendEvent(ev)
	})

	if g.Phase == bgammon.PhasePlaying {
		g.forfeit = player
		if err := g.Forfeit(player); err != nil {
			log.Panicf("failed to forfeit game %d: %s", g.id, err)
		}
		g.handleWin()
	}
	g.Players[player].Name = ""

	if g.terminated() && g.timer != nil {
		g.timer.Stop()
	}
}

func (g *serverGame) opponent(client *serverClient) *serverClient {
	if g.client1 == client {
		return g.client2
	} else if g.client2 == client {
		return g.client1
	}
	return nil
}

func (g *serverGame) listing() *bgammon.GameListing {
	if g.terminated() {
		return nil
	}
	return &bgammon.GameListing{
		ID:       g.id,
		Password: g.password != "",
		Players:  g.seated(),
		AI:       g.Players[1].AI,
		Name:     string(g.name),
	}
}

// start begins a game once both seats are taken. The human player starts
// games against the computer.
func (g *serverGame) start() {
	first := int8(bgammon.RandInt(2))
	if g.Players[1].AI {
		first = 0
	}
	g.Start(first)
	g.replay = g.replay[:0]
	g.advance(g.aiDelay)
}

// advance sends the current board to every participant and schedules the
// computer player when it is to act.
func (g *serverGame) advance(delay time.Duration) {
	g.active = time.Now().Unix()
	g.eachClient(g.sendBoard)
	if g.Phase != bgammon.PhasePlaying || !g.Players[g.Turn].AI {
		return
	}
	g.scheduleStep(delay, g.aiStep)
}

// scheduleStep runs step after the delay unless the game changed in the
// meantime.
func (g *serverGame) scheduleStep(delay time.Duration, step func()) {
	if g.schedule == nil {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	version := g.Version
	g.timer = g.schedule(delay, func() {
		if g.Version != version || g.Phase != bgammon.PhasePlaying {
			return
		}
		step()
	})
}

func (g *serverGame) aiStep() {
	player := g.Turn
	if !g.Players[player].AI {
		return
	}
	if !g.Rolled {
		if err := g.roll(player); err != nil {
			log.Panicf("computer player failed to roll: %s", err)
		}
		return
	}
	move, pip, ok := bgammon.ChooseMove(g.Board, g.Dice, player)
	if !ok {
		log.Panicf("computer player has no move with dice %v: %v", g.Dice, g.Board.Points)
	}
	if err := g.move(player, []bgammon.Move{move}, []int8{pip}); err != nil {
		log.Panicf("computer player chose illegal move %s: %s", bgammon.FormatMove(move), err)
	}
}

// roll rolls the dice for the player. ErrNotYourTurn is returned when another
// player is to act.
func (g *serverGame) roll(player int8) error {
	if g.Phase == bgammon.PhasePlaying && g.Turn != player {
		return bgammon.ErrNotYourTurn
	}
	roll1, roll2 := g.rollDice()
	skipped, err := g.Roll(player, roll1, roll2)
	if err != nil {
		return err
	}

	name := g.Players[player].Name
	rolled := &bgammon.EventRolled{
		Roll1: roll1,
		Roll2: roll2,
	}
	rolled.Player = name
	g.eachClient(func(client *serverClient) {
		client.sendEvent(rolled)
	})

	if !skipped {
		g.advance(g.aiDelay)
		return nil
	}

	g.recordTurn(player)
	ev := &bgammon.EventSkipped{
		Roll1: roll1,
		Roll2: roll2,
	}
	ev.Player = name
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
	})
	g.advance(g.skipDelay)
	return nil
}

// move plays one or more moves of the player. pips holds the die each move
// uses, where zero or a missing entry lets the game choose. The moves are
// validated together: when any move is illegal, the game is left unchanged.
// Moves after the turn passes or the game ends are ignored.
func (g *serverGame) move(player int8, moves []bgammon.Move, pips []int8) error {
	if g.Phase == bgammon.PhasePlaying && g.Turn != player {
		return bgammon.ErrNotYourTurn
	}

	next := g.Game.Copy()
	var played []bgammon.Move
	for i, move := range moves {
		if i > 0 && (next.Phase != bgammon.PhasePlaying || next.Turn != player) {
			break
		}
		move.Player = player
		var err error
		if i < len(pips) && pips[i] != 0 {
			err = next.MoveWithPip(move, pips[i])
		} else {
			_, err = next.Move(move)
		}
		if err != nil {
			return err
		}
		played = append(played, move)
	}
	if len(played) == 0 {
		return nil
	}
	g.Game = next

	ev := &bgammon.EventMoved{
		Moves:    played,
		LastMove: g.LastMove,
	}
	ev.Player = g.Players[player].Name
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
	})

	switch {
	case g.Phase == bgammon.PhaseFinished:
		g.recordTurn(player)
		g.handleWin()
	case g.Turn != player:
		g.recordTurn(player)
		g.advance(g.aiDelay)
	default:
		g.advance(g.aiDelay)
	}
	return nil
}

// recordTurn appends the roll and moves of the finished turn to the replay.
func (g *serverGame) recordTurn(player int8) {
	r1, r2 := g.Roll1, g.Roll2
	if r2 > r1 {
		r1, r2 = r2, r1
	}
	line := []byte(fmt.Sprintf("%d r %d-%d", player, r1, r2))
	if len(g.Moves) != 0 {
		line = append(line, ' ')
		line = append(line, bgammon.FormatMoves(g.Moves)...)
	}
	g.replay = append(g.replay, line)
}

func (g *serverGame) summary(winType bgammon.WinType) *gameSummary {
	winner := "player"
	if g.Winner == 1 {
		winner = "opponent"
	}
	header := []byte(fmt.Sprintf("i %d %s %s %d %d", g.Started.Unix(), g.Players[0].Name, g.Players[1].Name, g.Winner, winType))
	replay := append([][]byte{header}, g.replay...)
	return &gameSummary{
		ID:           uuid.New(),
		Started:      g.Started,
		PlayerName:   g.Players[0].Name,
		OpponentName: g.Players[1].Name,
		Winner:       winner,
		Duration:     g.Duration(),
		MoveCount:    g.MoveCount,
		WinType:      winType,
		Replay:       bytes.Join(replay, []byte("\n")),
	}
}

// handleWin announces the winner of a finished game, records the result and
// starts the next game when both seats remain taken.
func (g *serverGame) handleWin() {
	if g.Phase != bgammon.PhaseFinished || g.Winner == bgammon.NoPlayer {
		return
	}

	winType := bgammon.WinSingle
	if g.forfeit != bgammon.NoPlayer {
		g.replay = append(g.replay, []byte(fmt.Sprintf("%d t", g.forfeit)))
	} else {
		winType = bgammon.WinTypeOf(g.Board, g.Winner)
	}

	if g.record != nil {
		g.record(g.summary(winType))
	}

	ev := &bgammon.EventWin{
		Winner:  g.Winner,
		WinType: winType,
	}
	ev.Player = g.Players[g.Winner].Name
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
		g.sendBoard(client)
	})

	g.forfeit = bgammon.NoPlayer
	g.Reset()
	g.replay = nil
	if g.seated() == 2 {
		g.start()
	}
}

func (g *serverGame) terminated() bool {
	return g.client1 == nil && g.client2 == nil
}

// rejectionReason returns the message sent to a player whose roll or move was
// refused.
func rejectionReason(language string, err error) string {
	var moveErr *bgammon.MoveError
	switch {
	case errors.As(err, &moveErr):
		return fmt.Sprintf(gotext.GetD(language, "Illegal move: %s"), gotext.GetD(language, moveErr.Reason.String()))
	case errors.Is(err, bgammon.ErrNotStarted):
		return gotext.GetD(language, "Please wait for your opponent to join the match.")
	case errors.Is(err, bgammon.ErrGameFinished):
		return gotext.GetD(language, "The game has finished.")
	case errors.Is(err, bgammon.ErrAlreadyRolled):
		return gotext.GetD(language, "You have already rolled.")
	case errors.Is(err, bgammon.ErrNotRolled):
		return gotext.GetD(language, "You must roll before moving.")
	}
	return gotext.GetD(language, "Illegal move.")
}
