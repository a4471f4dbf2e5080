// Package series holds the in-memory accumulation of named sample
// streams that feed a chart.
package series

import (
	"gopkg.in/errgo.v1"
)

var (
	// ErrDuplicate is returned by Register when a series
	// with the same name already exists.
	ErrDuplicate = errgo.New("duplicate series name")

	// ErrRagged is returned by Check when the series
	// do not all hold the same number of samples.
	ErrRagged = errgo.New("series have unequal lengths")
)

// Table holds an ordered set of named series. The order in which
// series are registered is the order of their trace indexes
// in a chart and of their columns when exported.
//
// The zero value is an empty table ready to use. Methods
// on Table must not be called concurrently.
type Table struct {
	names   []string
	index   map[string]int
	samples [][]float64
}

// Register adds a new series with the given name holding a single
// sample. It returns the index of the new series.
func (t *Table) Register(name string, first float64) (int, error) {
	if _, ok := t.index[name]; ok {
		return 0, errgo.WithCausef(nil, ErrDuplicate, "cannot register %q", name)
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	i := len(t.names)
	t.index[name] = i
	t.names = append(t.names, name)
	t.samples = append(t.samples, []float64{first})
	return i, nil
}

// Append appends a sample to the series with the given index.
func (t *Table) Append(i int, v float64) {
	t.samples[i] = append(t.samples[i], v)
}

// Index returns the index of the series with the given name.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// NumSeries returns the number of registered series.
func (t *Table) NumSeries() int {
	return len(t.names)
}

// Names returns the series names in registration order.
// The caller must not mutate the returned slice.
func (t *Table) Names() []string {
	return t.names
}

// Samples returns the samples of the series with the given index.
// The caller must not mutate the returned slice.
func (t *Table) Samples(i int) []float64 {
	return t.samples[i]
}

// Len returns the number of samples held by the first series,
// or zero if there are none. When Check succeeds, this is the
// length of every series.
func (t *Table) Len() int {
	if len(t.samples) == 0 {
		return 0
	}
	return len(t.samples[0])
}

// Check reports whether every series holds the same number
// of samples. The returned error has ErrRagged as its cause
// if not.
func (t *Table) Check() error {
	n := t.Len()
	for i, s := range t.samples {
		if len(s) != n {
			return errgo.WithCausef(nil, ErrRagged, "series %q has %d samples, %q has %d", t.names[i], len(s), t.names[0], n)
		}
	}
	return nil
}

// Reset removes all series from the table.
func (t *Table) Reset() {
	*t = Table{}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	t1 := &Table{
		names:   append([]string(nil), t.names...),
		samples: make([][]float64, len(t.samples)),
	}
	if t.index != nil {
		t1.index = make(map[string]int, len(t.index))
		for name, i := range t.index {
			t1.index[name] = i
		}
	}
	for i, s := range t.samples {
		t1.samples[i] = append([]float64(nil), s...)
	}
	return t1
}
