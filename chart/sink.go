// Package chart defines the interface used to render series
// as chart traces, and a Hub that implements it by streaming
// render messages to any number of browser clients.
package chart

// Sink represents something that renders line charts. Each chart
// holds an ordered list of traces, addressed by index.
// Implementations should not block.
type Sink interface {
	// CreateChart creates a new empty chart with the given id,
	// replacing any existing chart with that id.
	CreateChart(chartID string)

	// PlotFirst adds a new trace labeled with the given name to the
	// end of the chart's traces, holding the single value v.
	PlotFirst(chartID string, name string, v float64)

	// Extend appends the value v to the trace with the given index.
	Extend(chartID string, trace int, v float64)

	// Rescale sets the visible x-axis window to [min, max].
	Rescale(chartID string, min, max int)

	// DeleteTrace removes the trace with the given index.
	// Traces after it move down by one.
	DeleteTrace(chartID string, trace int)
}
