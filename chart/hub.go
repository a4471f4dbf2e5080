package chart

import (
	"sync"

	"github.com/juju/loggo"

	"github.com/rogpeppe/charter/internal/notifier"
)

var logger = loggo.GetLogger("charter.chart")

// Kind identifies the kind of a render message.
type Kind string

const (
	KindNew      Kind = "new"
	KindPlot     Kind = "plot"
	KindExtend   Kind = "extend"
	KindRelayout Kind = "relayout"
	KindDelete   Kind = "delete"
	KindReset    Kind = "reset"
)

// Message holds a single render instruction. When marshaled as JSON
// it is what the browser page consumes.
type Message struct {
	Kind  Kind    `json:"kind"`
	Chart string  `json:"chart"`
	Name  string  `json:"name,omitempty"`
	Trace int     `json:"trace"`
	Value float64 `json:"value"`
	// Range holds the x-axis window for relayout messages, and
	// for reset messages when the chart has been rescaled.
	Range *[2]int `json:"range,omitempty"`
	// Traces holds the complete chart contents for reset messages.
	Traces []Trace `json:"traces,omitempty"`
}

// Trace holds the contents of one trace.
type Trace struct {
	Name string    `json:"name"`
	Y    []float64 `json:"y"`
}

// DefaultLogSize holds the default minimum number of recent
// messages retained by a Hub.
const DefaultLogSize = 4096

// Hub implements Sink by maintaining a model of each chart and a log
// of the messages that produced it. Clients follow the log with Since
// and Watch; a client that falls too far behind is sent a reset
// message holding the whole chart instead.
type Hub struct {
	n notifier.Notifier

	mu      sync.Mutex
	logSize int
	charts  map[string]*model
	// order holds the chart ids in creation order.
	order []string
	// log holds the most recent messages. The last element
	// has sequence number seq.
	log []Message
	seq int
}

type model struct {
	traces []Trace
	xrange *[2]int
}

var _ Sink = (*Hub)(nil)

// NewHub returns a new Hub that retains at least logSize recent
// messages. If logSize is zero, DefaultLogSize is used.
func NewHub(logSize int) *Hub {
	if logSize <= 0 {
		logSize = DefaultLogSize
	}
	return &Hub{
		logSize: logSize,
		charts:  make(map[string]*model),
	}
}

// CreateChart implements Sink.CreateChart.
func (h *Hub) CreateChart(chartID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.newChart(chartID)
	h.add(Message{
		Kind:  KindNew,
		Chart: chartID,
	})
}

func (h *Hub) newChart(chartID string) *model {
	if _, ok := h.charts[chartID]; !ok {
		h.order = append(h.order, chartID)
	}
	m := &model{}
	h.charts[chartID] = m
	return m
}

// PlotFirst implements Sink.PlotFirst. If the chart
// does not exist, it is created.
func (h *Hub) PlotFirst(chartID string, name string, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.charts[chartID]
	if m == nil {
		m = h.newChart(chartID)
	}
	m.traces = append(m.traces, Trace{
		Name: name,
		Y:    []float64{v},
	})
	h.add(Message{
		Kind:  KindPlot,
		Chart: chartID,
		Name:  name,
		Trace: len(m.traces) - 1,
		Value: v,
	})
}

// Extend implements Sink.Extend.
func (h *Hub) Extend(chartID string, trace int, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.chartWithTrace(chartID, trace)
	if m == nil {
		return
	}
	m.traces[trace].Y = append(m.traces[trace].Y, v)
	h.add(Message{
		Kind:  KindExtend,
		Chart: chartID,
		Trace: trace,
		Value: v,
	})
}

// Rescale implements Sink.Rescale.
func (h *Hub) Rescale(chartID string, min, max int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.charts[chartID]
	if m == nil {
		logger.Warningf("rescale of unknown chart %q", chartID)
		return
	}
	m.xrange = &[2]int{min, max}
	h.add(Message{
		Kind:  KindRelayout,
		Chart: chartID,
		Range: &[2]int{min, max},
	})
}

// DeleteTrace implements Sink.DeleteTrace. When the last trace
// is deleted, the x-axis window is reset too.
func (h *Hub) DeleteTrace(chartID string, trace int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.chartWithTrace(chartID, trace)
	if m == nil {
		return
	}
	m.traces = append(m.traces[:trace], m.traces[trace+1:]...)
	if len(m.traces) == 0 {
		m.xrange = nil
	}
	h.add(Message{
		Kind:  KindDelete,
		Chart: chartID,
		Trace: trace,
	})
}

func (h *Hub) chartWithTrace(chartID string, trace int) *model {
	m := h.charts[chartID]
	if m == nil {
		logger.Warningf("trace %d of unknown chart %q", trace, chartID)
		return nil
	}
	if trace < 0 || trace >= len(m.traces) {
		logger.Warningf("trace %d out of range in chart %q (%d traces)", trace, chartID, len(m.traces))
		return nil
	}
	return m
}

// add appends a message to the log and notifies watchers.
// Called with h.mu held.
func (h *Hub) add(msg Message) {
	if len(h.log) >= 2*h.logSize {
		h.log = append([]Message(nil), h.log[len(h.log)-h.logSize:]...)
	}
	h.log = append(h.log, msg)
	h.seq++
	h.n.Set(h.seq)
}

// Since returns all the messages after the given sequence number,
// and the sequence number of the last message. If seq is zero or the
// messages are no longer available, it returns one reset message for
// each chart instead, which the client should treat as replacing all
// that it has seen so far.
func (h *Hub) Since(seq int) ([]Message, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	base := h.seq - len(h.log)
	if seq <= 0 || seq < base || seq > h.seq {
		return h.snapshot(), h.seq
	}
	return append([]Message(nil), h.log[seq-base:]...), h.seq
}

func (h *Hub) snapshot() []Message {
	msgs := make([]Message, 0, len(h.order))
	for _, id := range h.order {
		m := h.charts[id]
		msg := Message{
			Kind:   KindReset,
			Chart:  id,
			Traces: copyTraces(m.traces),
		}
		if m.xrange != nil {
			r := *m.xrange
			msg.Range = &r
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// Traces returns a copy of the current traces in the given chart.
func (h *Hub) Traces(chartID string) []Trace {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.charts[chartID]
	if m == nil {
		return nil
	}
	return copyTraces(m.traces)
}

func copyTraces(traces []Trace) []Trace {
	traces1 := make([]Trace, len(traces))
	for i, t := range traces {
		traces1[i] = Trace{
			Name: t.Name,
			Y:    append([]float64(nil), t.Y...),
		}
	}
	return traces1
}

// Watch returns a watcher that is woken whenever a message
// is added after the given sequence number.
func (h *Hub) Watch(seq int) *notifier.Watcher {
	return h.n.Watch(seq)
}

// Close wakes up all watchers and stops them waiting.
func (h *Hub) Close() {
	h.n.Close()
}
