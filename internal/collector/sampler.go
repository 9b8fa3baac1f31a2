package collector

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nozo-moto/netspeed/pkg/types"
)

// DefaultInterval is the refresh period between ticks.
const DefaultInterval = 3 * time.Second

var ErrAlreadyRunning = errors.New("sampler already running")

// Sink receives one rate per tick.
type Sink interface {
	Update(types.RateSample)
}

// Sampler turns cumulative interface counters into down/up rates. It keeps
// the previous aggregate between ticks; each instance owns its own state.
type Sampler struct {
	source        CounterSource
	filter        *InterfaceFilter
	interval      time.Duration
	clock         clock.Clock
	log           *slog.Logger
	clampNegative bool

	mu   sync.Mutex
	prev types.AggregateCounters

	runMu  sync.Mutex
	ticker *clock.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

type Option func(*Sampler)

func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithFilter(f *InterfaceFilter) Option {
	return func(s *Sampler) {
		if f != nil {
			s.filter = f
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Sampler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClampNegative reports 0 instead of a negative rate when counters go
// backwards after an interface reset.
func WithClampNegative(clamp bool) Option {
	return func(s *Sampler) {
		s.clampNegative = clamp
	}
}

func NewSampler(source CounterSource, opts ...Option) *Sampler {
	s := &Sampler{
		source:   source,
		filter:   NewInterfaceFilter(),
		interval: DefaultInterval,
		clock:    clock.New(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Aggregate reads the counter source and sums rx/tx over every interface
// the filter keeps.
func (s *Sampler) Aggregate() (types.AggregateCounters, error) {
	var agg types.AggregateCounters

	samples, err := s.source.Read()
	if err != nil {
		return agg, err
	}

	for _, sample := range samples {
		if s.filter.Excluded(sample.Name) {
			continue
		}
		agg.Add(sample)
	}

	return agg, nil
}

// Sample runs one tick: aggregate, compute the rate against the previous
// aggregate and store the new baseline. A failed read yields a zero rate and
// a zero baseline, so the next good tick starts over from the sentinel.
func (s *Sampler) Sample() types.RateSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Aggregate()
	if err != nil {
		s.log.Error("failed to sample counters", "error", err)
		s.prev = types.AggregateCounters{}
		return types.RateSample{}
	}

	rate, next := ComputeRate(s.prev, cur, s.interval.Seconds())
	s.prev = next

	if s.clampNegative {
		rate.Down = max(rate.Down, 0)
		rate.Up = max(rate.Up, 0)
	}

	s.log.Debug("sampled counters",
		"rx_total", cur.RxTotal,
		"tx_total", cur.TxTotal,
		"down", rate.Down,
		"up", rate.Up,
	)

	return rate
}

// Reset drops the previous aggregate so the next tick reports zero.
func (s *Sampler) Reset() {
	s.mu.Lock()
	s.prev = types.AggregateCounters{}
	s.mu.Unlock()
}

// ComputeRate derives bytes-per-second rates from two aggregates taken
// intervalSeconds apart. A zero prev is the first-tick sentinel and is
// replaced by cur. cur is always returned as the next baseline, even when it
// is below prev, which yields one negative sample after a counter reset.
func ComputeRate(prev, cur types.AggregateCounters, intervalSeconds float64) (types.RateSample, types.AggregateCounters) {
	if prev.IsZero() {
		prev = cur
	}

	rate := types.RateSample{
		Down: delta(cur.RxTotal, prev.RxTotal) / intervalSeconds,
		Up:   delta(cur.TxTotal, prev.TxTotal) / intervalSeconds,
	}

	return rate, cur
}

func delta(cur, prev uint64) float64 {
	if cur >= prev {
		return float64(cur - prev)
	}
	return -float64(prev - cur)
}

// Start resets the sampler, pushes an immediate first tick to sink and then
// one tick per interval until Stop.
func (s *Sampler) Start(sink Sink) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.ticker != nil {
		return ErrAlreadyRunning
	}

	s.Reset()
	sink.Update(s.Sample())

	s.ticker = s.clock.Ticker(s.interval)
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.ticker, s.done, sink)

	s.log.Info("sampler started", "interval", s.interval)
	return nil
}

func (s *Sampler) run(ticker *clock.Ticker, done <-chan struct{}, sink Sink) {
	defer s.wg.Done()

	for {
		select {
		case <-ticker.C:
			sink.Update(s.Sample())
		case <-done:
			return
		}
	}
}

// Stop cancels the ticker and waits for the running tick to finish. It is a
// no-op when the sampler is not running.
func (s *Sampler) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.ticker == nil {
		return
	}

	s.ticker.Stop()
	close(s.done)
	s.wg.Wait()

	s.ticker = nil
	s.done = nil
	s.Reset()
	s.log.Info("sampler stopped")
}

func (s *Sampler) Running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.ticker != nil
}
