package server

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"codeberg.org/gammonduel/bgammon"
	"codeberg.org/tslocum/gotext"
)

func (s *server) handleCommands() {
	for cmd := range s.commands {
		if cmd.task != nil {
			cmd.task()
			continue
		}
		s.handleCommand(cmd)
	}
}

func (s *server) handleCommand(cmd serverCommand) {
	if cmd.client == nil {
		log.Panicf("nil client with command %s", cmd.command)
	} else if cmd.client.terminating || cmd.client.Terminated() {
		return
	}

	cmd.command = bytes.TrimSpace(cmd.command)

	firstSpace := bytes.IndexByte(cmd.command, ' ')
	var keyword string
	var startParameters int
	if firstSpace == -1 {
		keyword = string(cmd.command)
		startParameters = len(cmd.command)
	} else {
		keyword = string(cmd.command[:firstSpace])
		startParameters = firstSpace + 1
	}
	if keyword == "" {
		return
	}
	keyword = strings.ToLower(keyword)
	params := bytes.Fields(cmd.command[startParameters:])

	// Require users to send login command first.
	if !cmd.client.loggedIn() {
		if keyword == bgammon.CommandLogin || keyword == bgammon.CommandLoginJSON || keyword == "lj" {
			s.handleLogin(cmd.client, keyword, params)
			return
		}
		cmd.client.Terminate(gotext.GetD(cmd.client.language, "You must login before using other commands."))
		return
	}

	clientGame := s.gameByClient(cmd.client)
	if clientGame != nil && clientGame.client1 != cmd.client && clientGame.client2 != cmd.client {
		switch keyword {
		case bgammon.CommandHelp, "h", bgammon.CommandJSON, bgammon.CommandList, "ls", bgammon.CommandBoard, "b", bgammon.CommandLeave, "l", bgammon.CommandPong, bgammon.CommandDisconnect:
			// These commands are allowed to be used by spectators.
		default:
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Command ignored: You are spectating this match."))
			return
		}
	}

	switch keyword {
	case bgammon.CommandHelp, "h":
		if len(params) > 0 {
			command := string(bytes.ToLower(bytes.Join(params, []byte(" "))))
			commandHelp := bgammon.HelpText[command]
			if commandHelp != "" {
				cmd.client.sendEvent(&bgammon.EventHelp{
					Topic:   command,
					Message: "/" + command + " " + commandHelp,
				})
			} else {
				cmd.client.sendNotice(fmt.Sprintf(gotext.GetD(cmd.client.language, "Unknown command: %s"), command))
			}
			return
		}

		lines := []string{gotext.GetD(cmd.client.language, "Available commands:")}
		for _, command := range s.sortedCommands {
			lines = append(lines, "/"+command+" "+bgammon.HelpText[command])
		}
		cmd.client.sendEvent(&bgammon.EventHelp{
			Message: strings.Join(lines, "\n"),
		})
	case bgammon.CommandJSON:
		sendUsage := func() {
			cmd.client.sendNotice("To enable JSON formatted messages, send 'json on'. To disable JSON formatted messages, send 'json off'.")
		}
		if len(params) != 1 {
			sendUsage()
			return
		}
		switch strings.ToLower(string(params[0])) {
		case "on":
			cmd.client.json = true
			cmd.client.sendNotice("JSON formatted messages enabled.")
		case "off":
			cmd.client.json = false
			cmd.client.sendNotice("JSON formatted messages disabled.")
		default:
			sendUsage()
		}
	case bgammon.CommandSay, "s":
		if len(params) == 0 {
			return
		}
		if clientGame == nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Message not sent: You are not currently in a match."))
			return
		}
		opponent := clientGame.opponent(cmd.client)
		if opponent == nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Message not sent: There is no one else in the match."))
			return
		}
		ev := &bgammon.EventSay{
			Message: string(bytes.Join(params, []byte(" "))),
		}
		ev.Player = string(cmd.client.name)
		opponent.sendEvent(ev)
		if s.relayChat {
			for _, spectator := range clientGame.spectators {
				spectator.sendEvent(ev)
			}
		}
	case bgammon.CommandList, "ls":
		ev := &bgammon.EventList{}

		s.gamesLock.RLock()
		for _, g := range s.games {
			listing := g.listing()
			if listing == nil {
				continue
			}
			ev.Games = append(ev.Games, *listing)
		}
		s.gamesLock.RUnlock()

		cmd.client.sendEvent(ev)
	case bgammon.CommandCreate, "c":
		s.handleCreate(cmd.client, clientGame, params)
	case bgammon.CommandJoin, "j":
		s.handleJoin(cmd.client, clientGame, params)
	case bgammon.CommandLeave, "l":
		if clientGame == nil {
			cmd.client.sendEvent(&bgammon.EventFailedLeave{
				Reason: gotext.GetD(cmd.client.language, "You are not currently in a match."),
			})
			return
		}
		clientGame.removeClient(cmd.client)
	case bgammon.CommandRoll, "r":
		if clientGame == nil {
			cmd.client.sendEvent(&bgammon.EventFailedRoll{
				Reason: gotext.GetD(cmd.client.language, "You are not currently in a match."),
			})
			return
		}
		err := clientGame.roll(cmd.client.playerNumber)
		if err == nil || errors.Is(err, bgammon.ErrNotYourTurn) {
			return
		}
		cmd.client.sendEvent(&bgammon.EventFailedRoll{
			Reason: rejectionReason(cmd.client.language, err),
		})
	case bgammon.CommandMove, "m", "mv":
		if clientGame == nil {
			cmd.client.sendEvent(&bgammon.EventFailedMove{
				Reason: gotext.GetD(cmd.client.language, "You are not currently in a match."),
			})
			return
		} else if len(params) == 0 {
			cmd.client.sendEvent(&bgammon.EventFailedMove{
				Reason: gotext.GetD(cmd.client.language, "Specify one or more moves in the form FROM/TO. For example: 8/4 6/4"),
			})
			return
		}

		moves := make([]bgammon.Move, 0, len(params))
		pips := make([]int8, 0, len(params))
		for _, param := range params {
			move, pip, err := bgammon.ParsePlay(string(param), cmd.client.playerNumber)
			if err != nil {
				cmd.client.sendEvent(&bgammon.EventFailedMove{
					Reason: fmt.Sprintf(gotext.GetD(cmd.client.language, "Invalid move: %s"), param),
				})
				return
			}
			moves = append(moves, move)
			pips = append(pips, pip)
		}

		err := clientGame.move(cmd.client.playerNumber, moves, pips)
		if err == nil || errors.Is(err, bgammon.ErrNotYourTurn) {
			return
		}
		ev := &bgammon.EventFailedMove{
			Reason: rejectionReason(cmd.client.language, err),
		}
		var moveErr *bgammon.MoveError
		if errors.As(err, &moveErr) {
			ev.From, ev.To = moveErr.Move.From, moveErr.Move.To
		}
		cmd.client.sendEvent(ev)
	case bgammon.CommandBoard, "b":
		if clientGame == nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "You are not currently in a match."))
			return
		}
		clientGame.sendBoard(cmd.client)
	case bgammon.CommandPong:
		// Do nothing.
	case bgammon.CommandDisconnect:
		if clientGame != nil {
			clientGame.removeClient(cmd.client)
		}
		cmd.client.Terminate("Client disconnected")
	default:
		cmd.client.sendNotice(fmt.Sprintf(gotext.GetD(cmd.client.language, "Unknown command: %s"), keyword))
	}
}

func (s *server) handleLogin(client *serverClient, keyword string, params [][]byte) {
	if keyword == bgammon.CommandLoginJSON || keyword == "lj" {
		client.json = true
	}

	var username []byte
	if client.json {
		if len(params) > 0 {
			slashIndex := bytes.IndexRune(params[0], '/')
			if slashIndex != -1 {
				client.language = "bgammon-" + string(s.matchLanguage(params[0][slashIndex+1:]))
			}
			if len(params) > 1 {
				username = params[1]
			}
		}
	} else if len(params) > 0 {
		username = params[0]
	}

	s.clientsLock.Lock()
	name, reason := s.claimUsername(username)
	if reason == "" {
		client.name = name
	}
	clients := len(s.clients)
	s.clientsLock.Unlock()

	if reason != "" {
		client.Terminate(gotext.GetD(client.language, reason))
		return
	}

	s.gamesLock.RLock()
	games := len(s.games)
	s.gamesLock.RUnlock()

	client.sendEvent(&bgammon.EventWelcome{
		PlayerName: string(client.name),
		Clients:    clients,
		Games:      games,
	})

	log.Printf("Client %d logged in as %s", client.id, client.name)

	s.sendMOTD(client)
}

// claimUsername validates a requested username and returns the name the
// client will use. A reason is returned when the name may not be used. It
// assumes clients are already locked.
func (s *server) claimUsername(username []byte) ([]byte, string) {
	if len(bytes.TrimSpace(username)) == 0 {
		return s.randomUsername(), ""
	} else if !alphaNumericUnderscore.Match(username) {
		return nil, "Invalid username: must contain only letters, numbers and underscores."
	}

	username = bytes.ToLower(username)
	if onlyNumbers.Match(username) {
		return nil, "Invalid username: must contain at least one non-numeric character."
	} else if len(username) > maxUsernameLength {
		return nil, "Invalid username: too long."
	} else if !s.nameAllowed(username) {
		return nil, "That username is reserved."
	}

	if bytes.HasPrefix(username, []byte("bot_")) {
		username = append([]byte("BOT_"), username[4:]...)
	}
	if s.clientByUsername(username) != nil {
		return nil, "That username is already in use."
	}
	return username, ""
}

func (s *server) handleCreate(client *serverClient, clientGame *serverGame, params [][]byte) {
	if clientGame != nil {
		client.sendNotice(gotext.GetD(client.language, "Failed to create match: Please leave the match you are in before creating another."))
		return
	}

	sendUsage := func() {
		client.sendNotice("To create a match please specify whether it is public, private or against the computer. When creating a private match, a password must also be provided.")
	}
	if len(params) == 0 {
		sendUsage()
		return
	}

	var gamePassword []byte
	var gameName []byte
	var ai bool
	switch strings.ToLower(string(params[0])) {
	case "public":
		if len(params) > 1 {
			gameName = bytes.Join(params[1:], []byte(" "))
		}
	case "private":
		if len(params) < 2 {
			sendUsage()
			return
		}
		gamePassword = bytes.ReplaceAll(params[1], []byte("_"), []byte(" "))
		if len(params) > 2 {
			gameName = bytes.Join(params[2:], []byte(" "))
		}
	case "ai", "computer":
		ai = true
		if len(params) > 1 {
			gameName = bytes.Join(params[1:], []byte(" "))
		}
	default:
		sendUsage()
		return
	}

	// Set default game name.
	if len(bytes.TrimSpace(gameName)) == 0 {
		abbr := "'s"
		lastLetter := client.name[len(client.name)-1]
		if lastLetter == 's' || lastLetter == 'S' {
			abbr = "'"
		}
		gameName = []byte(fmt.Sprintf("%s%s match", client.name, abbr))
	}

	g := s.newGame()
	g.name = gameName
	if err := g.setPassword(gamePassword); err != nil {
		log.Printf("failed to create match: %s", err)
		client.sendNotice(gotext.GetD(client.language, "Failed to create match."))
		return
	}
	if ai {
		g.setAI()
	}
	s.addGame(g)

	client.sendNotice(fmt.Sprintf(gotext.GetD(client.language, "Created match: %s"), g.name))
	g.addClient(client)
}

func (s *server) handleJoin(client *serverClient, clientGame *serverGame, params [][]byte) {
	if clientGame != nil {
		client.sendEvent(&bgammon.EventFailedJoin{
			Reason: gotext.GetD(client.language, "Please leave the match you are in before joining another."),
		})
		return
	} else if len(params) == 0 {
		client.sendNotice("To join a match please specify its ID or the name of a player in the match. To join a private match, a password must also be specified.")
		return
	}

	var g *serverGame
	if onlyNumbers.Match(params[0]) {
		gameID, err := strconv.Atoi(string(params[0]))
		if err == nil && gameID > 0 {
			g = s.gameByID(gameID)
		}
	} else {
		s.clientsLock.Lock()
		sc := s.clientByUsername(params[0])
		s.clientsLock.Unlock()
		if sc != nil {
			g = s.gameByClient(sc)
		}
	}
	if g == nil || g.terminated() {
		client.sendEvent(&bgammon.EventFailedJoin{
			Reason: gotext.GetD(client.language, "Match not found."),
		})
		return
	}

	providedPassword := bytes.ReplaceAll(bytes.Join(params[1:], []byte(" ")), []byte("_"), []byte(" "))
	if !g.checkPassword(providedPassword) {
		client.sendEvent(&bgammon.EventFailedJoin{
			Reason: gotext.GetD(client.language, "Invalid password."),
		})
		return
	}

	client.sendNotice(fmt.Sprintf(gotext.GetD(client.language, "Joined match: %s"), g.name))
	if g.addClient(client) {
		client.sendNotice(gotext.GetD(client.language, "You are spectating this match. Chat messages are not relayed."))
	}
}
