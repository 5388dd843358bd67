package factory

import "github.com/iulianpascalau/traffic-dashboard/services/dashboard/engine"

// Server defines the operation of an entity able to serve requests
type Server interface {
	engine.Surface
	Start()
	Address() string
	Close() error
}

// Terminal defines a surface drawn on the local terminal
type Terminal interface {
	engine.Surface
	Start()
	Done() <-chan struct{}
	Close() error
}
