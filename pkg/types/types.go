package types

// InterfaceSample is one row of the kernel counter table.
type InterfaceSample struct {
	Name    string
	RxBytes uint64
	TxBytes uint64
}

// AggregateCounters holds rx/tx byte totals summed over every
// non-virtual interface at one point in time.
type AggregateCounters struct {
	RxTotal uint64
	TxTotal uint64
}

// IsZero reports whether a is the "no previous sample" sentinel.
func (a AggregateCounters) IsZero() bool {
	return a.RxTotal == 0 && a.TxTotal == 0
}

// Add accumulates a single interface into the aggregate.
func (a *AggregateCounters) Add(s InterfaceSample) {
	a.RxTotal += s.RxBytes
	a.TxTotal += s.TxBytes
}

// RateSample is a down/up throughput in bytes per second.
type RateSample struct {
	Down float64
	Up   float64
}
