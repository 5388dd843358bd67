package web

import (
	"context"
	"embed"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	messageTypeWrites = "writes"
	writeWait         = 5 * time.Second
)

//go:embed static/index.html
var staticFiles embed.FS

var log = logger.GetOrCreate("web")

// serverMessage is pushed to every connected browser
type serverMessage struct {
	Type   string               `json:"type"`
	Writes []common.RegionWrite `json:"writes"`
}

type subscriber struct {
	mut  sync.Mutex
	conn *websocket.Conn
}

func (sub *subscriber) send(msg serverMessage) error {
	sub.mut.Lock()
	defer sub.mut.Unlock()

	return sub.sendLocked(msg)
}

func (sub *subscriber) sendLocked(msg serverMessage) error {
	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteJSON(msg)
}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	document       Document
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	upgrader       websocket.Upgrader
	wg             sync.WaitGroup

	mutSubscribers sync.Mutex
	subscribers    map[*subscriber]struct{}
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	Document       Document
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Document) {
		return nil, errors.New("document is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		document:       args.Document,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/ws", s.handleWebSocket)

	api := s.router.Group("/api")
	api.GET("/regions", s.handleGetRegions)
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Apply updates the document and pushes the batch to every connected browser
func (s *server) Apply(writes []common.RegionWrite) error {
	err := s.document.Apply(writes)
	if err != nil {
		return err
	}

	s.broadcast(serverMessage{Type: messageTypeWrites, Writes: writes})

	return nil
}

func (s *server) broadcast(msg serverMessage) {
	s.mutSubscribers.Lock()
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mutSubscribers.Unlock()

	for _, sub := range subs {
		err := sub.send(msg)
		if err != nil {
			log.Debug("failed to push writes to browser", "remote", sub.conn.RemoteAddr().String(), "error", err)
		}
	}
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mutSubscribers.Lock()
	for sub := range s.subscribers {
		_ = sub.conn.Close()
	}
	s.mutSubscribers.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}

// --- Handlers ---

func (s *server) handleIndex(c *gin.Context) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *server) handleGetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": s.document.Regions()})
}

func (s *server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{conn: conn}
	defer func() {
		s.removeSubscriber(sub)
		_ = conn.Close()
	}()

	// broadcasts wait on sub.mut, so the initial state is always the first message
	sub.mut.Lock()
	s.addSubscriber(sub)
	err = sub.sendLocked(serverMessage{Type: messageTypeWrites, Writes: currentWrites(s.document)})
	sub.mut.Unlock()
	if err != nil {
		return
	}

	for {
		_, _, err = conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func (s *server) addSubscriber(sub *subscriber) {
	s.mutSubscribers.Lock()
	defer s.mutSubscribers.Unlock()

	s.subscribers[sub] = struct{}{}
}

func (s *server) removeSubscriber(sub *subscriber) {
	s.mutSubscribers.Lock()
	defer s.mutSubscribers.Unlock()

	delete(s.subscribers, sub)
}

func (s *server) numSubscribers() int {
	s.mutSubscribers.Lock()
	defer s.mutSubscribers.Unlock()

	return len(s.subscribers)
}

// currentWrites turns the document into writes, regions never written are skipped
func currentWrites(doc Document) []common.RegionWrite {
	regions := doc.Regions()
	writes := make([]common.RegionWrite, 0, len(regions))
	for _, region := range append(append([]common.RegionID{}, common.DisplayRegions...), common.RegionStatus) {
		content, exists := regions[region]
		if !exists || content.Kind == "" {
			continue
		}

		writes = append(writes, common.RegionWrite{
			Region: region,
			Kind:   content.Kind,
			Text:   content.Text,
			Rows:   content.Rows,
			Items:  content.Items,
		})
	}

	return writes
}
