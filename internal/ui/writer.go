package ui

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nozo-moto/netspeed/internal/format"
	"github.com/nozo-moto/netspeed/pkg/types"
)

// Writer prints one label per line, for pipes and non-interactive terminals.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	log *slog.Logger
}

func NewWriter(w io.Writer, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{w: w, log: log}
}

func (w *Writer) Update(r types.RateSample) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintln(w.w, format.Label(r)); err != nil {
		w.log.Error("failed to write label", "error", err)
	}
}
