package collector

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nozo-moto/netspeed/pkg/types"
)

// DefaultCounterFile is the kernel table of cumulative per-interface counters.
const DefaultCounterFile = "/proc/net/dev"

// Column positions in a tokenized /proc/net/dev row. Receive has eight
// columns after the name, so transmit bytes sit at index 9.
const (
	nameColumn    = 0
	rxBytesColumn = 1
	txBytesColumn = 9
)

// CounterSource produces a fresh snapshot of per-interface byte counters.
type CounterSource interface {
	Read() ([]types.InterfaceSample, error)
}

// ProcNetDevSource reads counters from a /proc/net/dev formatted file.
type ProcNetDevSource struct {
	Path string
	log  *slog.Logger
}

func NewProcNetDevSource(path string, log *slog.Logger) *ProcNetDevSource {
	if path == "" {
		path = DefaultCounterFile
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProcNetDevSource{Path: path, log: log}
}

func (s *ProcNetDevSource) Read() ([]types.InterfaceSample, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read counter file %s: %w", s.Path, err)
	}
	return parseNetDev(bytes.NewReader(data), s.log), nil
}

// ParseNetDev parses the contents of a /proc/net/dev style table. Header
// lines and rows whose byte columns are not unsigned integers are skipped.
func ParseNetDev(r io.Reader) []types.InterfaceSample {
	return parseNetDev(r, slog.Default())
}

func parseNetDev(r io.Reader, log *slog.Logger) []types.InterfaceSample {
	var samples []types.InterfaceSample

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tokens := tokenize(scanner.Text())
		if len(tokens) <= 2 {
			continue
		}
		if len(tokens) <= txBytesColumn {
			log.Debug("skipping short counter line", "tokens", len(tokens))
			continue
		}

		rx, err := strconv.ParseUint(tokens[rxBytesColumn], 10, 64)
		if err != nil {
			log.Debug("skipping unparsable counter line", "interface", tokens[nameColumn], "error", err)
			continue
		}
		tx, err := strconv.ParseUint(tokens[txBytesColumn], 10, 64)
		if err != nil {
			log.Debug("skipping unparsable counter line", "interface", tokens[nameColumn], "error", err)
			continue
		}

		samples = append(samples, types.InterfaceSample{
			Name:    tokens[nameColumn],
			RxBytes: rx,
			TxBytes: tx,
		})
	}

	return samples
}

// tokenize splits a row on runs of whitespace, colons and the pipes used in
// the banner. Dots and dashes stay inside names such as eth0.100 or br-1a2b.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', ':', '|', '\r':
			return true
		}
		return false
	})
}
