package server

import (
	"bytes"
	"errors"
	"log"
	"sync/atomic"

	"codeberg.org/gammonduel/bgammon"
)

var errConnectionClosed = errors.New("connection closed")

// transport reads commands from and writes events to a single connection.
// readCommand returns a nil command for messages which should be skipped.
type transport interface {
	readCommand() ([]byte, error)
	writeEvent(event []byte) error
	close()
}

var _ bgammon.Client = &connClient{}

// connClient queues events for a transport and forwards the commands it
// reads to the server.
type connClient struct {
	transport
	address    string
	events     chan []byte
	commands   chan<- []byte
	terminated atomic.Bool
	verbose    bool
}

func newConnClient(t transport, address string, commands chan<- []byte, verbose bool) *connClient {
	const bufferSize = 8
	return &connClient{
		transport: t,
		address:   address,
		events:    make(chan []byte, bufferSize),
		commands:  commands,
		verbose:   verbose,
	}
}

func (c *connClient) Address() string {
	return c.address
}

func (c *connClient) HandleReadWrite() {
	if c.terminated.Load() {
		return
	}

	stop := make(chan struct{})
	go c.writeEvents(stop)
	c.readCommands()
	close(stop)
}

func (c *connClient) Write(message []byte) {
	if c.terminated.Load() {
		return
	}
	c.events <- message
}

func (c *connClient) readCommands() {
	for !c.terminated.Load() {
		command, err := c.readCommand()
		if err != nil {
			c.Terminate(err.Error())
			return
		} else if command == nil {
			continue
		}

		if c.verbose {
			logClientRead(command)
		}
		c.commands <- command
	}
}

func (c *connClient) writeEvents(stop chan struct{}) {
	for {
		var event []byte
		select {
		case <-stop:
			// Unblock writers still holding events for this client.
			for {
				select {
				case <-c.events:
				default:
					return
				}
			}
		case event = <-c.events:
		}
		if c.terminated.Load() {
			continue
		}

		if err := c.writeEvent(event); err != nil {
			c.Terminate(err.Error())
		} else if c.verbose && !quietEvent(event) {
			log.Printf("-> %s", event)
		}
	}
}

func (c *connClient) Terminate(reason string) {
	if !c.terminated.CompareAndSwap(false, true) {
		return
	}
	c.close()
}

func (c *connClient) Terminated() bool {
	return c.terminated.Load()
}

func quietEvent(event []byte) bool {
	return bytes.HasPrefix(event, []byte(`{"Type":"ping"`)) || bytes.HasPrefix(event, []byte(`{"Type":"list"`)) || bytes.HasPrefix(event, []byte("ping "))
}
