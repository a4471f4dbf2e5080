package series_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/series"
)

func TestRegisterAndAppend(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	c.Assert(tab.NumSeries(), qt.Equals, 0)
	c.Assert(tab.Len(), qt.Equals, 0)

	i, err := tab.Register("A", 1)
	c.Assert(err, qt.IsNil)
	c.Assert(i, qt.Equals, 0)
	i, err = tab.Register("B", 2)
	c.Assert(err, qt.IsNil)
	c.Assert(i, qt.Equals, 1)

	tab.Append(0, 3)
	tab.Append(1, 4)
	c.Assert(tab.Names(), qt.DeepEquals, []string{"A", "B"})
	c.Assert(tab.Samples(0), qt.DeepEquals, []float64{1, 3})
	c.Assert(tab.Samples(1), qt.DeepEquals, []float64{2, 4})
	c.Assert(tab.Len(), qt.Equals, 2)
	c.Assert(tab.Check(), qt.IsNil)

	i, ok := tab.Index("B")
	c.Assert(ok, qt.IsTrue)
	c.Assert(i, qt.Equals, 1)
	_, ok = tab.Index("C")
	c.Assert(ok, qt.IsFalse)
}

func TestRegisterDuplicate(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	_, err := tab.Register("A", 1)
	c.Assert(err, qt.IsNil)
	_, err = tab.Register("A", 2)
	c.Assert(err, qt.ErrorMatches, `cannot register "A"`)
	c.Assert(errgo.Cause(err), qt.Equals, series.ErrDuplicate)
	c.Assert(tab.NumSeries(), qt.Equals, 1)
	c.Assert(tab.Samples(0), qt.DeepEquals, []float64{1})
}

func TestCheckRagged(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 1)
	tab.Register("B", 2)
	tab.Append(0, 3)
	err := tab.Check()
	c.Assert(err, qt.ErrorMatches, `series "B" has 1 samples, "A" has 2`)
	c.Assert(errgo.Cause(err), qt.Equals, series.ErrRagged)
}

func TestReset(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 1)
	tab.Reset()
	c.Assert(tab.NumSeries(), qt.Equals, 0)
	c.Assert(tab.Len(), qt.Equals, 0)
	_, ok := tab.Index("A")
	c.Assert(ok, qt.IsFalse)
	// The name can be reused after a reset.
	_, err := tab.Register("A", 5)
	c.Assert(err, qt.IsNil)
}

func TestCloneIsIndependent(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 1)
	tab.Register("B", 2)
	clone := tab.Clone()
	tab.Append(0, 10)
	tab.Append(1, 20)
	tab.Register("C", 30)

	c.Assert(clone.Names(), qt.DeepEquals, []string{"A", "B"})
	c.Assert(clone.Samples(0), qt.DeepEquals, []float64{1})
	c.Assert(clone.Samples(1), qt.DeepEquals, []float64{2})
	i, ok := clone.Index("B")
	c.Assert(ok, qt.IsTrue)
	c.Assert(i, qt.Equals, 1)
	_, ok = clone.Index("C")
	c.Assert(ok, qt.IsFalse)
}

func TestCloneEmpty(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	clone := tab.Clone()
	c.Assert(clone.NumSeries(), qt.Equals, 0)
	_, err := clone.Register("A", 1)
	c.Assert(err, qt.IsNil)
}
