package ui

import (
	"github.com/nozo-moto/netspeed/internal/collector"
	"github.com/nozo-moto/netspeed/pkg/types"
)

// Multi fans every update out to each sink in order.
type Multi []collector.Sink

func (m Multi) Update(r types.RateSample) {
	for _, sink := range m {
		sink.Update(r)
	}
}
