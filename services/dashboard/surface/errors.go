package surface

import "errors"

// ErrUnknownRegion signals a write addressed to a region the page does not have
var ErrUnknownRegion = errors.New("unknown display region")

// ErrUnknownWriteKind signals a write with an unsupported content kind
var ErrUnknownWriteKind = errors.New("unknown write kind")
