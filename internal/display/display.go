package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"

	"github.com/wagiedev/pipeloop-go/internal/engine"
)

// Console writes one tagged line per Display call to w, scrolling like the
// terminal it is. Channel tags are colorized when the target supports it.
type Console struct {
	mu        sync.Mutex
	w         io.Writer
	colorizer map[engine.Channel]func(format string, a ...any) string
}

// Compile-time verification that sinks implement engine.Sink.
var (
	_ engine.Sink = (*Console)(nil)
	_ engine.Sink = (*Nop)(nil)
)

// NewConsole creates a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		w: w,
		colorizer: map[engine.Channel]func(format string, a ...any) string{
			engine.TX: color.Green.Sprintf,
			engine.RX: color.Cyan.Sprintf,
		},
	}
}

// Display implements engine.Sink.
func (c *Console) Display(ch engine.Channel, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := c.colorizer[ch]("%-2s", ch)
	fmt.Fprintf(c.w, "%s  %s\n", tag, text)
}

// Refresh implements engine.Sink. Console output is line-buffered by the
// terminal, so there is nothing to repaint.
func (c *Console) Refresh() {}

// Nop is a sink that discards all output.
type Nop struct{}

// Display implements engine.Sink.
func (Nop) Display(engine.Channel, string) {}

// Refresh implements engine.Sink.
func (Nop) Refresh() {}
