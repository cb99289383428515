// Package bot plays backgammon on a bgammon server using the greedy move
// policy of the computer player.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"codeberg.org/gammonduel/bgammon"
	"github.com/gorilla/websocket"
)

// Bot is a player connected to a server over WebSocket.
type Bot struct {
	// Name is the username of the bot without the BOT_ prefix.
	Name string
	// Join is the ID of the match to join. A public match is created when
	// Join is zero.
	Join int
	// MaxGames is the number of games to play before leaving. Zero plays
	// until the connection is closed.
	MaxGames int
	Verbose  bool

	conn        *websocket.Conn
	lastVersion int
	games       int
	opponent    string
}

func NewBot(name string) *Bot {
	return &Bot{
		Name: name,
	}
}

// Run connects to the server and plays until the context is canceled, the
// connection is closed or MaxGames games have been played.
func (b *Bot) Run(ctx context.Context, address string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, address, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %s", address, err)
	}
	b.conn = conn
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := b.send("lj bgammon-bot bot_" + strings.ToLower(b.Name)); err != nil {
		return err
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read from server: %s", err)
		}

		ev, err := bgammon.DecodeEvent(msg)
		if err != nil {
			if b.Verbose {
				log.Printf("skipped message: %s", msg)
			}
			continue
		}

		finished, err := b.handleEvent(ev)
		if err != nil {
			return err
		} else if finished {
			return nil
		}
	}
}

func (b *Bot) send(command string) error {
	if b.Verbose {
		log.Printf("-> %s", command)
	}
	if err := b.conn.WriteMessage(websocket.TextMessage, []byte(command)); err != nil {
		return fmt.Errorf("failed to write to server: %s", err)
	}
	return nil
}

// handleEvent responds to an event. It returns true once the bot has left.
func (b *Bot) handleEvent(e interface{}) (bool, error) {
	switch ev := e.(type) {
	case *bgammon.EventWelcome:
		log.Printf("Logged in as %s", ev.PlayerName)
		if b.Join > 0 {
			return false, b.send("join " + strconv.Itoa(b.Join))
		}
		return false, b.send("create public")
	case *bgammon.EventPing:
		return false, b.send("pong " + ev.Message)
	case *bgammon.EventFailedJoin:
		return false, errors.New("failed to join match: " + ev.Reason)
	case *bgammon.EventFailedRoll:
		log.Printf("failed to roll: %s", ev.Reason)
	case *bgammon.EventFailedMove:
		log.Printf("failed to move: %s", ev.Reason)
	case *bgammon.EventBoard:
		if ev.Version <= b.lastVersion {
			return false, nil
		}
		b.lastVersion = ev.Version

		if opponent := ev.OpponentPlayer().Name; opponent != "" && opponent != b.opponent {
			b.opponent = opponent
			log.Printf("%s is playing against %s", ev.LocalPlayer().Name, opponent)
		}

		if ev.MayRoll() {
			return false, b.send("roll")
		} else if ev.MayMove() {
			move, pip, ok := bgammon.ChooseMove(ev.Board, ev.Dice, ev.PlayerNumber)
			if !ok {
				return false, nil
			}
			return false, b.send("move " + bgammon.FormatPlay(move, pip))
		}
	case *bgammon.EventWin:
		b.games++
		log.Printf("%s won game %d (%s)", ev.Player, b.games, ev.WinType)
		if b.MaxGames > 0 && b.games >= b.MaxGames {
			return true, b.send("leave")
		}
	}
	return false, nil
}
