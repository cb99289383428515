package server

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"codeberg.org/gammonduel/bgammon"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/crypto/sha3"
)

// Listen accepts connections on the address. The network is either "ws"
// for WebSocket connections and web endpoints, or a network accepted by
// net.Listen.
func (s *server) Listen(network string, address string) {
	if strings.ToLower(network) == "ws" {
		go s.listenWebSocket(address)
		return
	}

	log.Printf("Listening for %s connections on %s...", strings.ToUpper(network), address)
	listener, err := net.Listen(network, address)
	if err != nil {
		log.Fatalf("failed to listen on %s: %s", address, err)
	}
	go s.handleListener(listener)
	s.listeners = append(s.listeners, listener)
}

func (s *server) handleListener(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		} else if err != nil {
			log.Fatalf("failed to accept connection: %s", err)
		}
		go s.handleConnection(conn)
	}
}

func (s *server) addCORSHeader(f func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		f(w, r)
	}
}

func (s *server) router() *mux.Router {
	m := mux.NewRouter()
	handle := func(path string, f func(http.ResponseWriter, *http.Request)) *mux.Route {
		return m.HandleFunc(path, s.addCORSHeader(f))
	}

	handle("/match/{id}", s.handleMatch)
	handle("/matches.json", s.handleListMatches)
	handle("/leaderboard.json", s.handleLeaderboard)
	handle("/stats/{username:[A-Za-z0-9_\\-]+}.json", s.handleAccountStats)
	handle("/", s.handleWebSocket)
	return m
}

func (s *server) listenWebSocket(address string) {
	log.Printf("Listening for WebSocket connections on %s...", address)

	m := s.router()
	if s.certDomain == "" {
		err := http.ListenAndServe(address, m)
		log.Fatalf("failed to listen on %s: %s", address, err)
	}

	certManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(s.certFolder),
		HostPolicy: autocert.HostWhitelist(s.certDomain),
		Email:      s.certEmail,
	}

	server := &http.Server{
		Addr:    address,
		Handler: m,
		TLSConfig: &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		},
	}

	go func() {
		err := http.ListenAndServe(s.certAddress, certManager.HTTPHandler(m))
		log.Fatalf("failed to listen on %s: %s", s.certAddress, err)
	}()

	err := server.ListenAndServeTLS("", "")
	log.Fatalf("failed to listen on %s: %s", address, err)
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	const bufferSize = 8
	commands := make(chan []byte, bufferSize)

	wsClient := newWebSocketClient(r, w, s.hashIP(r.RemoteAddr), commands, s.verbose)
	if wsClient == nil {
		return
	}

	c := newServerClient(<-s.newClientIDs, commands, wsClient)
	s.handleClient(c)
}

func (s *server) cachedMatches() []byte {
	s.gamesCacheLock.Lock()
	defer s.gamesCacheLock.Unlock()

	if time.Since(s.gamesCacheTime) < 5*time.Second {
		return s.gamesCache
	}

	var games []*bgammon.GameListing
	s.run(func() {
		s.gamesLock.RLock()
		defer s.gamesLock.RUnlock()

		for _, g := range s.games {
			listing := g.listing()
			if listing == nil || listing.Password || listing.Players == 2 {
				continue
			}
			games = append(games, listing)
		}
	})

	s.gamesCacheTime = time.Now()
	if len(games) == 0 {
		s.gamesCache = []byte("[]")
		return s.gamesCache
	}
	var err error
	s.gamesCache, err = json.Marshal(games)
	if err != nil {
		log.Fatalf("failed to marshal %+v: %s", games, err)
	}
	return s.gamesCache
}

func (s *server) cachedLeaderboard() []byte {
	s.leaderboardCacheLock.Lock()
	defer s.leaderboardCacheLock.Unlock()

	if s.leaderboardCache != nil && time.Since(s.leaderboardCacheTime) < 5*time.Minute {
		return s.leaderboardCache
	}

	result := &leaderboardResult{}
	if s.store != nil {
		var err error
		result.Leaderboard, err = s.store.leaderboard(100)
		if err != nil {
			log.Printf("failed to get leaderboard: %s", err)
			return []byte(`{"Leaderboard":null}`)
		}
	}

	buf, err := json.Marshal(result)
	if err != nil {
		log.Fatalf("failed to marshal %+v: %s", result, err)
	}
	s.leaderboardCache = buf
	s.leaderboardCacheTime = time.Now()
	return s.leaderboardCache
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil || s.store == nil {
		http.NotFound(w, r)
		return
	}

	summary, err := s.store.game(id)
	if errors.Is(err, errGameNotFound) || (err == nil && len(summary.Replay) == 0) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.Printf("failed to retrieve match: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%d_%s_%s.match"`, summary.Started.In(s.tz).Unix(), summary.PlayerName, summary.OpponentName))
	w.Write(summary.Replay)
}

func (s *server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.cachedMatches())
}

func (s *server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.cachedLeaderboard())
}

func (s *server) handleAccountStats(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(mux.Vars(r)["username"])
	if strings.HasPrefix(strings.ToLower(username), "bot_") {
		username = "BOT_" + username[4:]
	} else {
		username = strings.ToLower(username)
	}

	result := &accountStats{Username: username, Rating: defaultRating / 100}
	if s.store != nil {
		var err error
		result, err = stats(s.store, username)
		if err != nil {
			log.Printf("failed to fetch account statistics: %s", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	buf, err := json.Marshal(result)
	if err != nil {
		log.Fatalf("failed to serialize account statistics: %s", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf)
}

// hashIP returns a salted hash of the host part of a remote address.
func (s *server) hashIP(address string) string {
	leftBracket, rightBracket := strings.IndexByte(address, '['), strings.IndexByte(address, ']')
	if leftBracket != -1 && rightBracket != -1 && rightBracket > leftBracket {
		address = address[leftBracket+1 : rightBracket]
	} else if strings.IndexByte(address, '.') != -1 {
		colon := strings.IndexByte(address, ':')
		if colon != -1 {
			address = address[:colon]
		}
	}

	buf := []byte(address + s.ipSalt)
	h := make([]byte, 64)
	sha3.ShakeSum256(h, buf)
	return fmt.Sprintf("%x", h)
}
