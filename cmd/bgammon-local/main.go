package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"codeberg.org/gammonduel/bgammon/pkg/server"
)

func main() {
	op, err := server.OptionsFromEnv()
	if err != nil {
		log.Fatalf("failed to read options: %s", err)
	}
	var name string
	flag.StringVar(&name, "name", "player", "Your username")
	flag.StringVar(&op.DataSource, "db", op.DataSource, "SQLite file to record finished games in")
	flag.Parse()
	op.RelayChat = true

	s := server.NewServer(op)
	conn := <-s.ListenLocal()

	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "ping ") {
				fmt.Fprintf(conn, "pong %s\n", line[5:])
				continue
			}
			fmt.Println(line)
		}
		os.Exit(0)
	}()

	fmt.Fprintf(conn, "login %s\ncreate ai\n", name)

	fmt.Println("Send 'roll', 'move FROM/TO ...', 'board' or 'help'. Send 'disconnect' to quit.")
	if _, err := io.Copy(conn, os.Stdin); err != nil {
		log.Fatalf("failed to send command: %s", err)
	}
	conn.Close()
}
