package chart_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/rogpeppe/charter/chart"
)

func TestHubModel(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(0)
	h.CreateChart("c1")
	h.PlotFirst("c1", "A", 1)
	h.PlotFirst("c1", "B", 2)
	h.Extend("c1", 0, 3)
	h.Extend("c1", 1, 4)
	c.Assert(h.Traces("c1"), qt.DeepEquals, []chart.Trace{{
		Name: "A",
		Y:    []float64{1, 3},
	}, {
		Name: "B",
		Y:    []float64{2, 4},
	}})

	h.DeleteTrace("c1", 1)
	h.DeleteTrace("c1", 0)
	c.Assert(h.Traces("c1"), qt.DeepEquals, []chart.Trace{})
	c.Assert(h.Traces("unknown"), qt.IsNil)
}

func TestHubIgnoresBadTraces(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(0)
	h.CreateChart("c1")
	h.Extend("c1", 0, 1)
	h.DeleteTrace("c1", 3)
	h.Extend("other", 0, 1)
	h.Rescale("other", 0, 10)
	msgs, seq := h.Since(1)
	c.Assert(msgs, qt.HasLen, 0)
	c.Assert(seq, qt.Equals, 1)
}

func TestHubSince(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(0)
	h.CreateChart("c1")
	h.PlotFirst("c1", "A", 1)
	h.Extend("c1", 0, 2)
	h.Rescale("c1", 1, 501)

	msgs, seq := h.Since(1)
	c.Assert(seq, qt.Equals, 4)
	c.Assert(msgs, qt.DeepEquals, []chart.Message{{
		Kind:  chart.KindPlot,
		Chart: "c1",
		Name:  "A",
		Trace: 0,
		Value: 1,
	}, {
		Kind:  chart.KindExtend,
		Chart: "c1",
		Trace: 0,
		Value: 2,
	}, {
		Kind:  chart.KindRelayout,
		Chart: "c1",
		Range: &[2]int{1, 501},
	}})

	msgs, seq = h.Since(4)
	c.Assert(msgs, qt.HasLen, 0)
	c.Assert(seq, qt.Equals, 4)
}

func TestHubSnapshot(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(0)
	msgs, seq := h.Since(0)
	c.Assert(msgs, qt.HasLen, 0)
	c.Assert(seq, qt.Equals, 0)

	h.CreateChart("c1")
	h.CreateChart("c2")
	h.PlotFirst("c2", "A", 1)
	h.Rescale("c2", 5, 10)

	msgs, seq = h.Since(0)
	c.Assert(seq, qt.Equals, 4)
	c.Assert(msgs, qt.DeepEquals, []chart.Message{{
		Kind:   chart.KindReset,
		Chart:  "c1",
		Traces: []chart.Trace{},
	}, {
		Kind:  chart.KindReset,
		Chart: "c2",
		Traces: []chart.Trace{{
			Name: "A",
			Y:    []float64{1},
		}},
		Range: &[2]int{5, 10},
	}})
}

func TestHubTrimsLog(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(2)
	h.CreateChart("c1")
	h.PlotFirst("c1", "A", 0)
	for i := 1; i <= 10; i++ {
		h.Extend("c1", 0, float64(i))
	}
	// The most recent messages are still available.
	msgs, seq := h.Since(11)
	c.Assert(seq, qt.Equals, 12)
	c.Assert(msgs, qt.DeepEquals, []chart.Message{{
		Kind:  chart.KindExtend,
		Chart: "c1",
		Value: 10,
	}})

	// Old ones are not, so we get a reset.
	msgs, seq = h.Since(2)
	c.Assert(seq, qt.Equals, 12)
	c.Assert(msgs, qt.HasLen, 1)
	c.Assert(msgs[0].Kind, qt.Equals, chart.KindReset)
	c.Assert(msgs[0].Traces[0].Y, qt.DeepEquals, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
}

func TestHubWatch(t *testing.T) {
	c := qt.New(t)
	h := chart.NewHub(0)
	h.CreateChart("c1")
	_, seq := h.Since(0)
	w := h.Watch(seq)
	done := make(chan bool)
	go func() {
		done <- w.Next()
	}()
	h.PlotFirst("c1", "A", 1)
	select {
	case ok := <-done:
		c.Assert(ok, qt.IsTrue)
	case <-time.After(5 * time.Second):
		c.Fatalf("watcher not woken")
	}
	c.Assert(w.Seq(), qt.Equals, 2)

	go func() {
		done <- w.Next()
	}()
	h.Close()
	select {
	case ok := <-done:
		c.Assert(ok, qt.IsFalse)
	case <-time.After(5 * time.Second):
		c.Fatalf("watcher not woken by close")
	}
}
