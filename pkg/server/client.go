package server

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"codeberg.org/gammonduel/bgammon"
)

type serverClient struct {
	id           int
	json         bool
	name         []byte
	language     string
	connected    int64
	active       int64
	lastPing     int64
	commands     chan []byte
	playerNumber int8
	terminating  bool
	bgammon.Client
}

func newServerClient(id int, commands chan []byte, client bgammon.Client) *serverClient {
	now := time.Now().Unix()
	return &serverClient{
		id:           id,
		language:     "bgammon-en",
		connected:    now,
		active:       now,
		commands:     commands,
		playerNumber: bgammon.NoPlayer,
		Client:       client,
	}
}

func (c *serverClient) loggedIn() bool {
	return len(c.name) != 0
}

func (c *serverClient) sendEvent(e interface{}) {
	if c.json {
		buf, err := bgammon.EncodeEvent(e)
		if err != nil {
			log.Panicf("failed to send event to %s: %s", c.label(), err)
		}
		c.Write(buf)
		return
	}

	lines := eventLines(e)
	if len(lines) == 0 {
		log.Printf("warning: no text form for event %T, not sent to %s", e, c.label())
		return
	}
	for _, line := range lines {
		c.Write([]byte(line))
	}
}

// eventLines formats an event for clients which have not enabled JSON.
func eventLines(e interface{}) []string {
	switch ev := e.(type) {
	case *bgammon.EventWelcome:
		return []string{fmt.Sprintf("welcome %s there are %d clients playing %d matches.", ev.PlayerName, ev.Clients, ev.Games)}
	case *bgammon.EventHelp:
		lines := []string{"helpstart Help text:"}
		for _, line := range strings.Split(ev.Message, "\n") {
			lines = append(lines, "help "+line)
		}
		return append(lines, "helpend End of help text.")
	case *bgammon.EventPing:
		return []string{"ping " + ev.Message}
	case *bgammon.EventNotice:
		return []string{"notice " + ev.Message}
	case *bgammon.EventSay:
		return []string{"say " + ev.Player + " " + ev.Message}
	case *bgammon.EventList:
		lines := make([]string, 0, len(ev.Games)+2)
		lines = append(lines, "liststart Matches list:")
		for _, g := range ev.Games {
			name := g.Name
			if name == "" {
				name = "(No name)"
			}
			lines = append(lines, fmt.Sprintf("game %d %d %d %d %s", g.ID, boolInt(g.Password), boolInt(g.AI), g.Players, name))
		}
		return append(lines, "listend End of matches list.")
	case *bgammon.EventJoined:
		return []string{fmt.Sprintf("joined %d %d %s", ev.GameID, ev.PlayerNumber, ev.Player)}
	case *bgammon.EventFailedJoin:
		return []string{"failedjoin " + ev.Reason}
	case *bgammon.EventLeft:
		return []string{"left " + ev.Player}
	case *bgammon.EventFailedLeave:
		return []string{"failedleave " + ev.Reason}
	case *bgammon.EventRolled:
		return []string{fmt.Sprintf("rolled %s %d %d", ev.Player, ev.Roll1, ev.Roll2)}
	case *bgammon.EventFailedRoll:
		return []string{"failedroll " + ev.Reason}
	case *bgammon.EventMoved:
		return []string{"moved " + ev.Player + " " + bgammon.FormatMoves(ev.Moves)}
	case *bgammon.EventFailedMove:
		return []string{fmt.Sprintf("failedmove %s/%s %s", bgammon.FormatSpace(ev.From), bgammon.FormatSpace(ev.To), ev.Reason)}
	case *bgammon.EventSkipped:
		return []string{fmt.Sprintf("skipped %s %d %d", ev.Player, ev.Roll1, ev.Roll2)}
	case *bgammon.EventWin:
		return []string{fmt.Sprintf("win %s wins! (%s)", ev.Player, ev.WinType)}
	}
	return nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (c *serverClient) sendNotice(message string) {
	c.sendEvent(&bgammon.EventNotice{
		Message: message,
	})
}

func (c *serverClient) label() string {
	if len(c.name) > 0 {
		return string(c.name)
	}
	return strconv.Itoa(c.id)
}

func (c *serverClient) Terminate(reason string) {
	if c.Terminated() || c.terminating {
		return
	}
	c.terminating = true

	var extra string
	if reason != "" {
		extra = ": " + reason
	}
	c.sendNotice("Connection terminated" + extra)

	go func() {
		time.Sleep(time.Second)
		c.Client.Terminate(reason)
	}()
}

func logClientRead(msg []byte) {
	msgLower := bytes.ToLower(msg)
	if bytes.HasPrefix(msgLower, []byte("list")) || bytes.HasPrefix(msgLower, []byte("ls")) || bytes.HasPrefix(msgLower, []byte("pong")) {
		return
	}
	log.Printf("<- %s", msg)
}
