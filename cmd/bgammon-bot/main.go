package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"codeberg.org/gammonduel/bgammon/pkg/bot"
)

func main() {
	var (
		address  string
		name     string
		join     int
		maxGames int
		verbose  bool
	)
	flag.StringVar(&address, "address", "ws://localhost:1338", "Server WebSocket address")
	flag.StringVar(&name, "name", "greedy2", "Bot username (without the BOT_ prefix)")
	flag.IntVar(&join, "join", 0, "ID of the match to join (a public match is created by default)")
	flag.IntVar(&maxGames, "games", 0, "Number of games to play before leaving (0 plays forever)")
	flag.BoolVar(&verbose, "verbose", false, "Print all messages sent to the server")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := bot.NewBot(name)
	b.Join = join
	b.MaxGames = maxGames
	b.Verbose = verbose
	if err := b.Run(ctx, address); err != nil {
		log.Fatalf("failed to play: %s", err)
	}
}
