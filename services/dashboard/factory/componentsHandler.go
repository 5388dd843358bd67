package factory

import (
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/engine"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/poller"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/surface"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/web"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const drainTimeout = 10 * time.Second

var log = logger.GetOrCreate("factory")

// Document is the in-memory page every non-terminal surface is backed by
type Document interface {
	web.Document
	NumApplied() uint64
}

type componentsHandler struct {
	poller   engine.Poller
	surface  engine.Surface
	engine   engine.CycleRunner
	document Document
	server   Server
	terminal Terminal

	endpoint string
	interval time.Duration

	mutHandle sync.Mutex
	handle    *engine.PollHandle
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	cfg.ApplyDefaults()

	ch := &componentsHandler{
		poller:   poller.NewHTTPPoller(time.Duration(cfg.RequestTimeoutInSeconds) * time.Second),
		endpoint: cfg.EndpointURL,
		interval: time.Duration(cfg.PollIntervalInMilliseconds) * time.Millisecond,
	}

	switch cfg.Surface {
	case config.SurfaceWeb:
		ch.document = surface.NewDashboardDocument()
		server, err := web.NewServer(web.ArgsWebServer{
			ListenAddress:  cfg.ListenAddress,
			Document:       ch.document,
			GeneralHandler: web.CORSMiddleware,
		})
		if err != nil {
			return nil, err
		}
		ch.server = server
		ch.surface = server
	case config.SurfaceTerminal:
		ch.terminal = surface.NewTerminal()
		ch.surface = ch.terminal
	case config.SurfaceNone:
		ch.document = surface.NewDashboardDocument()
		ch.surface = ch.document
	default:
		return nil, fmt.Errorf("unknown surface %q", cfg.Surface)
	}

	eng, err := engine.NewDashboardEngine(cfg, ch.poller, ch.surface)
	if err != nil {
		return nil, err
	}
	ch.engine = eng

	return ch, nil
}

// GetPoller returns the poller component
func (ch *componentsHandler) GetPoller() engine.Poller {
	return ch.poller
}

// GetSurface returns the surface the engine renders into
func (ch *componentsHandler) GetSurface() engine.Surface {
	return ch.surface
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() engine.CycleRunner {
	return ch.engine
}

// GetDocument returns the in-memory document, nil for the terminal surface
func (ch *componentsHandler) GetDocument() Document {
	return ch.document
}

// GetServer returns the web server, nil unless the web surface is configured
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Stopped is closed when the user quits the terminal surface. It never closes for the other surfaces.
func (ch *componentsHandler) Stopped() <-chan struct{} {
	if ch.terminal == nil {
		return nil
	}

	return ch.terminal.Done()
}

// Start starts the surface and the polling schedule
func (ch *componentsHandler) Start() error {
	ch.mutHandle.Lock()
	defer ch.mutHandle.Unlock()

	if ch.handle != nil {
		return nil
	}

	if ch.server != nil {
		ch.server.Start()
	}
	if ch.terminal != nil {
		ch.terminal.Start()
	}

	handle, err := engine.StartPolling(ch.engine, ch.interval, ch.endpoint)
	if err != nil {
		return err
	}
	ch.handle = handle

	return nil
}

// Close stops the polling schedule, waits for the in-flight cycle and closes the surface
func (ch *componentsHandler) Close() {
	ch.mutHandle.Lock()
	defer ch.mutHandle.Unlock()

	if ch.handle != nil {
		engine.CancelPolling(ch.handle)
		select {
		case <-ch.handle.Done():
		case <-time.After(drainTimeout):
			log.Warn("timeout waiting for the in-flight metrics cycle")
		}
		ch.handle = nil
	}

	if ch.server != nil {
		err := ch.server.Close()
		if err != nil {
			log.Warn("failed to close web server", "error", err)
		}
	}
	if ch.terminal != nil {
		_ = ch.terminal.Close()
	}
}
