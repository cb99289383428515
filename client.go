package bgammon

// Client is a connection to the server. Commands read from the connection are
// delivered to the server through a channel; events are written with Write.
type Client interface {
	Address() string
	HandleReadWrite()
	Write(message []byte)
	Terminate(reason string)
	Terminated() bool
}
