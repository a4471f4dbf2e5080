package googlecharts_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/rogpeppe/charter/googlecharts"
	"github.com/rogpeppe/charter/series"
)

func TestNewDataTable(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 1)
	tab.Register("B", 2)
	tab.Append(0, 3)
	tab.Append(1, 4.5)

	dt := googlecharts.NewDataTable(&tab)
	data, err := json.Marshal(dt)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.JSONEquals, &googlecharts.DataTable{
		Cols: []googlecharts.Column{{
			Type: "number",
			Id:   "sample",
		}, {
			Type:  "number",
			Id:    "A",
			Label: "A",
		}, {
			Type:  "number",
			Id:    "B",
			Label: "B",
		}},
		Rows: []googlecharts.Row{{
			Cells: []googlecharts.Cell{{
				Value: 0,
			}, {
				Value: 1.0,
			}, {
				Value: 2.0,
			}},
		}, {
			Cells: []googlecharts.Cell{{
				Value: 1,
			}, {
				Value: 3.0,
			}, {
				Value: 4.5,
			}},
		}},
	})
}

func TestNewDataTableZeroValues(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 0)

	data, err := json.Marshal(googlecharts.NewDataTable(&tab))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `{"cols":[{"type":"number","id":"sample"},{"type":"number","id":"A","label":"A"}],"rows":[{"c":[{"v":0},{"v":0}]}]}`)
}

func TestNewDataTableEmpty(t *testing.T) {
	c := qt.New(t)
	data, err := json.Marshal(googlecharts.NewDataTable(new(series.Table)))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `{"cols":[{"type":"number","id":"sample"}],"rows":[]}`)
}

func TestNewDataTableRagged(t *testing.T) {
	c := qt.New(t)
	var tab series.Table
	tab.Register("A", 1)
	tab.Register("B", 2)
	tab.Append(0, 3)

	dt := googlecharts.NewDataTable(&tab)
	c.Assert(dt.Rows, qt.HasLen, 2)
	c.Assert(dt.Rows[1].Cells[2].Value, qt.IsNil)
	c.Assert(dt.Rows[1].Cells[1].Value, qt.Equals, 3.0)
}
