package server

import (
	"bufio"
	"net"
	"time"
)

// socketTransport carries newline terminated messages over a stream
// connection, such as TCP or an in-process pipe.
type socketTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func newSocketClient(conn net.Conn, commands chan<- []byte, verbose bool) *connClient {
	var address string
	if addr := conn.RemoteAddr(); addr != nil {
		address = addr.String()
	}
	t := &socketTransport{
		conn:    conn,
		scanner: bufio.NewScanner(conn),
	}
	return newConnClient(t, address, commands, verbose)
}

func (t *socketTransport) readCommand() ([]byte, error) {
	err := t.conn.SetReadDeadline(time.Now().Add(clientTimeout))
	if err != nil {
		return nil, err
	}
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errConnectionClosed
	}
	return append([]byte(nil), t.scanner.Bytes()...), nil
}

func (t *socketTransport) writeEvent(event []byte) error {
	err := t.conn.SetWriteDeadline(time.Now().Add(clientTimeout))
	if err != nil {
		return err
	}
	_, err = t.conn.Write(append(event, '\n'))
	return err
}

func (t *socketTransport) close() {
	t.conn.Close()
}
