// Package collector implements the worker that polls a data source at
// a fixed interval, accumulates the returned samples and renders them
// on a chart.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/juju/loggo"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/chart"
	"github.com/rogpeppe/charter/datasource"
	"github.com/rogpeppe/charter/series"
)

var logger = loggo.GetLogger("charter.collector")

var (
	// ErrRunning is returned by Clear when collection is in progress.
	ErrRunning = errgo.New("stop recording before you clear")

	// ErrNoChart is returned by Start when Init has not been called.
	ErrNoChart = errgo.New("no chart initialized")

	// ErrClosed is returned by Start after the collector has been closed.
	ErrClosed = errgo.New("collector closed")
)

const (
	// DefaultInterval holds the default polling interval.
	DefaultInterval = 250 * time.Millisecond

	// DefaultHorizon holds the default number of samples
	// shown before the chart starts to scroll.
	DefaultHorizon = 500

	// DefaultChannels holds the default channel selector
	// sent to the data source.
	DefaultChannels = "1 2 3"
)

// Params holds the parameters for a call to New.
type Params struct {
	// Source is used to fetch samples.
	Source datasource.Source

	// Sink is used to render the samples.
	Sink chart.Sink

	// Channels holds the channel selector passed to Source.GetData.
	// If it's empty, DefaultChannels is used.
	Channels string

	// Interval holds the polling interval.
	// If it's zero, DefaultInterval is used.
	Interval time.Duration

	// Horizon holds the number of samples after which the
	// chart scrolls rather than grows.
	// If it's zero, DefaultHorizon is used.
	Horizon int

	// Updater is informed of status changes. It may be nil.
	Updater Updater

	// Registerer is used to register the collector's metrics.
	// It may be nil.
	Registerer prometheus.Registerer
}

// Updater is used by the collector to notify external entities
// when its status changes. Implementations should not block and
// must not call methods on the Collector.
type Updater interface {
	UpdateStatus(s Status)
}

type nopUpdater struct{}

func (nopUpdater) UpdateStatus(Status) {}

// Status holds a summary of the collector's current state.
type Status struct {
	Chart   string
	State   State
	Samples int
	Series  []string
}

// Collector collects samples from a data source. Its methods may
// be called concurrently.
type Collector struct {
	p       Params
	metrics *metrics
	ctx     context.Context
	cancel  func()
	wg      sync.WaitGroup

	// publishMu is held while calling the updater. It is
	// acquired before mu is released.
	publishMu sync.Mutex

	// mu guards the fields below it.
	mu      sync.Mutex
	chartID string
	state   State
	// gen is incremented every time collection starts. A response
	// is only applied if it was requested in the current generation.
	gen int
	// stop is closed to stop the current polling goroutine.
	stop chan struct{}
	// count holds the number of responses accepted in the
	// current run, including the samples held from previous
	// runs when resuming.
	count int
	table series.Table
}

// New returns a new idle collector. It should be closed after use.
func New(p Params) (*Collector, error) {
	if p.Source == nil {
		return nil, errgo.New("no data source")
	}
	if p.Sink == nil {
		return nil, errgo.New("no chart sink")
	}
	if p.Channels == "" {
		p.Channels = DefaultChannels
	}
	if p.Interval == 0 {
		p.Interval = DefaultInterval
	}
	if p.Horizon == 0 {
		p.Horizon = DefaultHorizon
	}
	if p.Interval < 0 || p.Horizon < 0 {
		return nil, errgo.Newf("invalid interval %v or horizon %d", p.Interval, p.Horizon)
	}
	if p.Updater == nil {
		p.Updater = nopUpdater{}
	}
	m, err := newMetrics(p.Registerer)
	if err != nil {
		return nil, errgo.Mask(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		p:       p,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Init binds the collector to the chart with the given id and
// creates the chart. Calling Init again with the same id does
// nothing. The chart cannot be changed while the collector is
// running or holds data.
func (c *Collector) Init(chartID string) error {
	c.mu.Lock()
	if chartID == c.chartID {
		c.mu.Unlock()
		return nil
	}
	if c.state == Running || c.table.NumSeries() > 0 {
		c.mu.Unlock()
		return errgo.Newf("cannot change chart from %q to %q while holding data", c.chartID, chartID)
	}
	c.chartID = chartID
	c.p.Sink.CreateChart(chartID)
	c.unlockAndPublish()
	return nil
}

// Start starts collection. If the collector is already running,
// it does nothing. If data from a previous run has not been
// cleared, the new samples are appended to it.
func (c *Collector) Start() error {
	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.chartID == "" {
		c.mu.Unlock()
		return ErrNoChart
	}
	if c.state == Running {
		c.mu.Unlock()
		logger.Infof("already plotting")
		return nil
	}
	c.state = Running
	c.gen++
	c.count = c.table.Len()
	c.stop = make(chan struct{})
	c.wg.Add(1)
	go c.run(c.gen, c.stop)
	logger.Infof("collection started (run %d, %d existing samples)", c.gen, c.count)
	c.unlockAndPublish()
	return nil
}

// Stop stops collection. A request that is in flight is not
// aborted, but its response is discarded.
func (c *Collector) Stop() {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		logger.Infof("no data is being plotted")
		return
	}
	c.stopLocked()
	logger.Infof("collection stopped after %d samples", c.count)
	c.unlockAndPublish()
}

func (c *Collector) stopLocked() {
	c.state = Idle
	close(c.stop)
	c.stop = nil
}

// Clear removes all accumulated data and deletes its traces from
// the chart. It returns ErrRunning without doing anything if
// collection is in progress.
func (c *Collector) Clear() error {
	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		logger.Warningf("cannot clear while collection is running")
		return ErrRunning
	}
	if c.table.NumSeries() == 0 {
		c.mu.Unlock()
		return nil
	}
	for i := c.table.NumSeries() - 1; i >= 0; i-- {
		c.p.Sink.DeleteTrace(c.chartID, i)
	}
	c.table.Reset()
	c.count = 0
	c.metrics.samples.Set(0)
	c.unlockAndPublish()
	return nil
}

// Snapshot returns a copy of the accumulated data.
func (c *Collector) Snapshot() *series.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Clone()
}

// Status returns the current status of the collector.
func (c *Collector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

func (c *Collector) status() Status {
	return Status{
		Chart:   c.chartID,
		State:   c.state,
		Samples: c.table.Len(),
		Series:  append([]string(nil), c.table.Names()...),
	}
}

// Close stops collection and waits for any polling
// goroutines to finish.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.state == Running {
		c.stopLocked()
	}
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

func (c *Collector) run(gen int, stop <-chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}
		c.tick(gen)
	}
}

// tick requests one batch from the data source and applies it.
func (c *Collector) tick(gen int) {
	c.mu.Lock()
	current := c.state == Running && c.gen == gen
	c.mu.Unlock()
	if !current {
		return
	}
	c.metrics.ticks.Inc()
	b, err := c.p.Source.GetData(c.ctx, c.p.Channels)
	if err != nil {
		c.metrics.failures.Inc()
		if c.ctx.Err() == nil {
			logger.Warningf("cannot get data: %v", err)
		}
		return
	}
	c.mu.Lock()
	if !c.apply(gen, b) {
		c.mu.Unlock()
		return
	}
	c.unlockAndPublish()
}

// unlockAndPublish releases c.mu and sends the current status to the
// updater. Statuses are delivered in the order they were taken, so
// a slow update from a tick can't land after a later Stop.
// Called with c.mu held.
func (c *Collector) unlockAndPublish() {
	st := c.status()
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	c.mu.Unlock()
	c.p.Updater.UpdateStatus(st)
}

// apply applies a batch requested in the given generation and
// reports whether it was accepted. Called with c.mu held.
func (c *Collector) apply(gen int, b *datasource.Batch) bool {
	if c.state != Running || c.gen != gen {
		logger.Debugf("discarding response from stale run %d", gen)
		c.metrics.stale.Inc()
		return false
	}
	if b == nil {
		b = &datasource.Batch{}
	}
	if err := b.Validate(); err != nil {
		logger.Warningf("skipping response: %v", err)
		c.metrics.malformed.Inc()
		return false
	}
	switch {
	case len(b.Names) == 0:
	case c.table.NumSeries() == 0:
		for i, name := range b.Names {
			// Validate has checked that the names are unique.
			c.table.Register(name, b.Values[i])
			c.p.Sink.PlotFirst(c.chartID, name, b.Values[i])
		}
	default:
		row, err := c.row(b)
		if err != nil {
			logger.Warningf("skipping response: %v", err)
			c.metrics.malformed.Inc()
			return false
		}
		for i, v := range row {
			c.table.Append(i, v)
			c.p.Sink.Extend(c.chartID, i, v)
		}
		if c.count > c.p.Horizon {
			c.p.Sink.Rescale(c.chartID, c.count-c.p.Horizon, c.count)
		}
	}
	c.count++
	c.metrics.samples.Set(float64(c.table.Len()))
	return true
}

// row returns the values in b arranged in trace order.
func (c *Collector) row(b *datasource.Batch) ([]float64, error) {
	if len(b.Names) != c.table.NumSeries() {
		return nil, errgo.WithCausef(nil, datasource.ErrMalformed, "got %d series, want %v", len(b.Names), c.table.Names())
	}
	row := make([]float64, len(b.Names))
	for i, name := range b.Names {
		ti, ok := c.table.Index(name)
		if !ok {
			return nil, errgo.WithCausef(nil, datasource.ErrMalformed, "unexpected series %q", name)
		}
		row[ti] = b.Values[i]
	}
	return row, nil
}
