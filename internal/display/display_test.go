package display

import (
	"bytes"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/pipeloop-go/internal/engine"
)

func TestConsoleTagsChannels(t *testing.T) {
	color.Disable()

	var buf bytes.Buffer

	sink := NewConsole(&buf)
	sink.Display(engine.TX, "Line: 0")
	sink.Display(engine.RX, "Line: 0")
	sink.Refresh()

	out := buf.String()
	require.Contains(t, out, "tx  Line: 0\n")
	require.Contains(t, out, "rx  Line: 0\n")
}

func TestConsolePreservesOrder(t *testing.T) {
	color.Disable()

	var buf bytes.Buffer

	sink := NewConsole(&buf)
	sink.Display(engine.TX, "first")
	sink.Display(engine.RX, "second")

	out := buf.String()
	require.Less(t, bytes.Index(buf.Bytes(), []byte("first")), bytes.Index(buf.Bytes(), []byte("second")))
	require.NotEmpty(t, out)
}

func TestNopDiscards(t *testing.T) {
	var sink Nop

	sink.Display(engine.TX, "anything")
	sink.Refresh()
}
