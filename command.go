package bgammon

// Commands are always sent TO the server. They are plain text lines: a
// keyword followed by space separated parameters.

const (
	CommandLogin      = "login"      // Log in with an optional username.
	CommandLoginJSON  = "loginjson"  // Log in and receive JSON formatted events.
	CommandHelp       = "help"       // Print help information.
	CommandJSON       = "json"       // Enable or disable JSON formatted events.
	CommandSay        = "say"        // Send a chat message to the opponent.
	CommandList       = "list"       // List matches.
	CommandCreate     = "create"     // Create a match.
	CommandJoin       = "join"       // Join a match.
	CommandLeave      = "leave"      // Leave the current match.
	CommandRoll       = "roll"       // Roll the dice.
	CommandMove       = "move"       // Move checkers.
	CommandBoard      = "board"      // Print the current board.
	CommandPong       = "pong"       // Response to a ping.
	CommandDisconnect = "disconnect" // Close the connection.
)

var HelpText = map[string]string{
	CommandLogin:      "[username] - Log in. A random name is assigned when no username is provided.",
	CommandLoginJSON:  "<client name> [username] - Log in and receive JSON formatted events.",
	CommandHelp:       "[command] - Print help information.",
	CommandJSON:       "<on/off> - Turn JSON formatted events on or off.",
	CommandSay:        "<message> - Send a chat message to your opponent.",
	CommandList:       "- List all matches.",
	CommandCreate:     "<public/private/ai> [password] [name] - Create a match. Private matches require a password. AI matches are played against the computer.",
	CommandJoin:       "<id>/<username> [password] - Join a match by its ID or by the name of a player in it.",
	CommandLeave:      "- Leave the current match. Leaving a match in progress forfeits it.",
	CommandRoll:       "- Roll the dice.",
	CommandMove:       "<from/to> [from/to]... - Move checkers. Use 'bar' and 'off' for the bar and bearing off. Append :<pip> to choose the die used, for example 3/off:6.",
	CommandBoard:      "- Print the current board.",
	CommandPong:       "<message> - Sent in response to a ping.",
	CommandDisconnect: "- Disconnect from the server.",
}
