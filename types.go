package pipeloop

import (
	"github.com/wagiedev/pipeloop-go/internal/config"
	"github.com/wagiedev/pipeloop-go/internal/engine"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures the behavior of the pipe loop.
type Options = config.Options

// ===== Display =====

// Channel identifies the logical direction of a displayed line.
type Channel = engine.Channel

const (
	// TX is the outbound channel (parent to child).
	TX = engine.TX
	// RX is the inbound channel (child to parent).
	RX = engine.RX
)

// Sink consumes completed lines for display. Implementations must not
// block the loop for longer than the iteration interval.
type Sink = engine.Sink
