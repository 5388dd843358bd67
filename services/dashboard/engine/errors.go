package engine

import "errors"

var errNilPoller = errors.New("nil poller")
var errNilSurface = errors.New("nil surface")
var errNilCycleRunner = errors.New("nil cycle runner")
var errInvalidInterval = errors.New("polling interval must be greater than 0")
var errEmptyEndpoint = errors.New("empty endpoint URL")
