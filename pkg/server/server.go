package server

//go:generate xgotext -no-locations -default bgammon -in . -out locales

import (
	"bytes"
	"embed"
	"fmt"
	"log"
	"net"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"codeberg.org/tslocum/gotext"
	"golang.org/x/text/language"
)

const clientTimeout = 40 * time.Second

const maxUsernameLength = 18

var (
	onlyNumbers            = regexp.MustCompile(`^[0-9]+$`)
	guestName              = regexp.MustCompile(`^guest_?[0-9]+$`)
	alphaNumericUnderscore = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

//go:embed locales
var assetFS embed.FS

var englishIdentifier = []byte("en")

func init() {
	gotext.SetDomain("bgammon-en")
}

// serverCommand is either a command sent by a client or a task scheduled by
// the server. Both are handled by the command goroutine.
type serverCommand struct {
	client  *serverClient
	command []byte
	task    func()
}

type server struct {
	clients      []*serverClient
	games        []*serverGame
	listeners    []net.Listener
	newGameIDs   chan int
	newClientIDs chan int
	commands     chan serverCommand
	welcome      []byte

	gamesLock   sync.RWMutex
	clientsLock sync.Mutex

	gamesCache     []byte
	gamesCacheTime time.Time
	gamesCacheLock sync.Mutex

	leaderboardCache     []byte
	leaderboardCacheTime time.Time
	leaderboardCacheLock sync.Mutex

	store resultStore

	motd   string
	ipSalt string

	certDomain  string
	certEmail   string
	certFolder  string
	certAddress string

	sortedCommands []string

	tz            *time.Location
	languageTags  []language.Tag
	languageNames [][]byte

	skipDelay time.Duration
	aiDelay   time.Duration

	relayChat bool // Chats are not relayed normally. This option is only used by local servers.
	verbose   bool
}

func NewServer(op *Options) *server {
	if op == nil {
		op = &Options{}
	}
	const bufferSize = 10
	s := &server{
		newGameIDs:   make(chan int),
		newClientIDs: make(chan int),
		commands:     make(chan serverCommand, bufferSize),
		welcome:      []byte("hello Welcome to bgammon! Please log in by sending the 'login' command. You may specify a username, otherwise you will be assigned a random username. Have fun!"),
		motd:         op.MOTD,
		ipSalt:       op.IPAddressSalt,
		certDomain:   op.CertDomain,
		certEmail:    op.CertEmail,
		certFolder:   op.CertFolder,
		certAddress:  op.CertAddress,
		skipDelay:    op.SkipDelay,
		aiDelay:      op.AIDelay,
		relayChat:    op.RelayChat,
		verbose:      op.Verbose,
	}
	if s.skipDelay <= 0 {
		s.skipDelay = defaultSkipDelay
	}
	if s.aiDelay <= 0 {
		s.aiDelay = defaultAIDelay
	}
	s.loadLocales()

	for command := range bgammon.HelpText {
		s.sortedCommands = append(s.sortedCommands, command)
	}
	sort.Strings(s.sortedCommands)

	if op.TZ != "" {
		var err error
		s.tz, err = time.LoadLocation(op.TZ)
		if err != nil {
			log.Fatalf("failed to parse timezone %s: %s", op.TZ, err)
		}
	} else {
		s.tz = time.UTC
	}

	if op.DataSource != "" {
		var err error
		s.store, err = openStore(op.DataSource)
		if err != nil {
			log.Fatalf("failed to connect to database: %s", err)
		}
		log.Println("Connected to database successfully")
	}

	go s.handleNewGameIDs()
	go s.handleNewClientIDs()
	go s.handleCommands()
	go s.handleGames()
	return s
}

func (s *server) loadLocales() {
	entries, err := assetFS.ReadDir("locales")
	if err != nil {
		log.Fatalf("failed to list files in locales directory: %s", err)
	}

	var availableTags = []language.Tag{
		language.MustParse("en_US"),
	}
	var availableNames = [][]byte{
		[]byte("en"),
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		availableTags = append(availableTags, language.MustParse(entry.Name()))
		availableNames = append(availableNames, []byte(entry.Name()))

		b, err := assetFS.ReadFile(fmt.Sprintf("locales/%s/%s.po", entry.Name(), entry.Name()))
		if err != nil {
			log.Fatalf("failed to read locale %s: %s", entry.Name(), err)
		}

		po := gotext.NewPo()
		po.Parse(b)
		gotext.GetStorage().AddTranslator(fmt.Sprintf("bgammon-%s", entry.Name()), po)
	}
	s.languageTags = availableTags
	s.languageNames = availableNames
}

func (s *server) matchLanguage(identifier []byte) []byte {
	if len(identifier) == 0 {
		return englishIdentifier
	}

	tag, err := language.Parse(string(identifier))
	if err != nil {
		return englishIdentifier
	}
	var preferred = []language.Tag{tag}

	useLanguage, index, _ := language.NewMatcher(s.languageTags).Match(preferred...)
	useLanguageCode := useLanguage.String()
	if index < 0 || useLanguageCode == "" || strings.HasPrefix(useLanguageCode, "en") {
		return englishIdentifier
	}
	return s.languageNames[index]
}

// Close stops accepting connections on the listeners opened by Listen and
// closes the result store.
func (s *server) Close() {
	for _, listener := range s.listeners {
		listener.Close()
	}
	s.run(func() {
		if s.store == nil {
			return
		}
		if err := s.store.close(); err != nil {
			log.Printf("failed to close database: %s", err)
		}
	})
}

// schedule runs task on the command goroutine after delay.
func (s *server) schedule(delay time.Duration, task func()) *time.Timer {
	return time.AfterFunc(delay, func() {
		s.commands <- serverCommand{task: task}
	})
}

// run runs task on the command goroutine and waits for it to finish.
func (s *server) run(task func()) {
	done := make(chan struct{})
	s.commands <- serverCommand{task: func() {
		task()
		close(done)
	}}
	<-done
}

// ListenLocal returns a channel of connections to the server which do not
// leave the process.
func (s *server) ListenLocal() chan net.Conn {
	conns := make(chan net.Conn)
	go s.handleLocal(conns)
	return conns
}

func (s *server) handleLocal(conns chan net.Conn) {
	for {
		local, remote := net.Pipe()

		conns <- local
		go s.handleConnection(remote)
	}
}

func (s *server) nameAllowed(username []byte) bool {
	return !guestName.Match(username) && !bytes.EqualFold(username, []byte(AIName))
}

// clientByUsername returns the client logged in with the name, and assumes
// clients are already locked.
func (s *server) clientByUsername(username []byte) *serverClient {
	for _, c := range s.clients {
		if bytes.EqualFold(c.name, username) {
			return c
		}
	}
	return nil
}

func (s *server) addClient(c *serverClient) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	s.clients = append(s.clients, c)
}

func (s *server) removeClient(c *serverClient) {
	s.run(func() {
		g := s.gameByClient(c)
		if g != nil {
			g.removeClient(c)
		}
		c.Terminate("")
	})

	close(c.commands)

	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	for i, sc := range s.clients {
		if sc == c {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}

func (s *server) handleGames() {
	t := time.NewTicker(time.Minute)
	for range t.C {
		s.commands <- serverCommand{task: s.collectGames}
	}
}

// collectGames removes rooms which no longer have any players.
func (s *server) collectGames() {
	s.gamesLock.Lock()
	defer s.gamesLock.Unlock()

	i := 0
	for _, g := range s.games {
		if !g.terminated() {
			s.games[i] = g
			i++
			continue
		}
		for _, spectator := range g.spectators {
			spectator.playerNumber = bgammon.NoPlayer
			spectator.sendEvent(&bgammon.EventLeft{})
		}
		if g.timer != nil {
			g.timer.Stop()
		}
	}
	for j := i; j < len(s.games); j++ {
		s.games[j] = nil // Allow memory to be deallocated.
	}
	s.games = s.games[:i]
}

func (s *server) handleClient(c *serverClient) {
	s.addClient(c)

	log.Printf("Client %s connected", c.label())

	go s.handlePingClient(c)
	go s.handleClientCommands(c)

	c.HandleReadWrite()

	// Remove client.
	s.removeClient(c)

	log.Printf("Client %s disconnected", c.label())
}

func (s *server) handleConnection(conn net.Conn) {
	const bufferSize = 8
	commands := make(chan []byte, bufferSize)

	c := newServerClient(<-s.newClientIDs, commands, newSocketClient(conn, commands, s.verbose))
	s.sendWelcome(c)
	s.handleClient(c)
}

func (s *server) handlePingClient(c *serverClient) {
	t := time.NewTicker(30 * time.Second)
	defer t.Stop()
	for range t.C {
		if c.Terminated() {
			return
		}
		s.commands <- serverCommand{task: func() {
			s.pingClient(c)
		}}
	}
}

func (s *server) pingClient(c *serverClient) {
	if c.terminating || c.Terminated() {
		return
	}
	if !c.loggedIn() {
		c.Terminate(gotext.GetD(c.language, "User did not send login command within 30 seconds."))
		return
	}
	c.lastPing = time.Now().Unix()
	c.sendEvent(&bgammon.EventPing{
		Message: fmt.Sprintf("%d", c.lastPing),
	})
}

func (s *server) handleClientCommands(c *serverClient) {
	for command := range c.commands {
		s.commands <- serverCommand{
			client:  c,
			command: command,
		}
	}
}

func (s *server) handleNewGameIDs() {
	gameID := 1
	for {
		s.newGameIDs <- gameID
		gameID++
	}
}

func (s *server) handleNewClientIDs() {
	clientID := 1
	for {
		s.newClientIDs <- clientID
		clientID++
	}
}

// randomUsername returns a random guest username, and assumes clients are already locked.
func (s *server) randomUsername() []byte {
	for {
		name := []byte(fmt.Sprintf("Guest_%d", 100+bgammon.RandInt(900)))

		if s.clientByUsername(name) == nil {
			return name
		}
	}
}

func (s *server) sendWelcome(c *serverClient) {
	if c.json {
		return
	}
	c.Write(s.welcome)
}

func (s *server) sendMOTD(c *serverClient) {
	if s.motd == "" {
		return
	}
	c.sendNotice(s.motd)
}

// newGame returns a room wired to the command goroutine and the result store.
func (s *server) newGame() *serverGame {
	g := newServerGame(<-s.newGameIDs, s.schedule)
	g.skipDelay = s.skipDelay
	g.aiDelay = s.aiDelay
	g.record = s.recordSummary
	return g
}

func (s *server) addGame(g *serverGame) {
	s.gamesLock.Lock()
	defer s.gamesLock.Unlock()

	s.games = append(s.games, g)
}

func (s *server) recordSummary(summary *gameSummary) {
	if s.store == nil {
		return
	}
	if err := recordResult(s.store, summary); err != nil {
		log.Printf("failed to record game result: %s", err)
	}
}

func (s *server) gameByClient(c *serverClient) *serverGame {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	for _, g := range s.games {
		if g.client1 == c || g.client2 == c {
			return g
		}
		for _, spec := range g.spectators {
			if spec == c {
				return g
			}
		}
	}
	return nil
}

func (s *server) gameByID(id int) *serverGame {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	for _, g := range s.games {
		if g.id == id {
			return g
		}
	}
	return nil
}
