package collector

import (
	"fmt"

	"github.com/nozo-moto/netspeed/pkg/types"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// PsutilSource reads per-interface counters through gopsutil. It covers
// platforms that have no /proc/net/dev.
type PsutilSource struct{}

func NewPsutilSource() *PsutilSource {
	return &PsutilSource{}
}

func (ps *PsutilSource) Read() ([]types.InterfaceSample, error) {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("failed to get network counters: %w", err)
	}

	samples := make([]types.InterfaceSample, 0, len(counters))
	for _, counter := range counters {
		samples = append(samples, types.InterfaceSample{
			Name:    counter.Name,
			RxBytes: counter.BytesRecv,
			TxBytes: counter.BytesSent,
		})
	}

	return samples, nil
}
