// Package googlecharts converts accumulated series data into the
// Google Charts DataTable JSON format.
package googlecharts

import (
	"github.com/rogpeppe/charter/series"
)

// DataTable holds the contents of a data table. When marshaled as JSON,
// it is suitable for passing to google.visualization.DataTable.
type DataTable struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

type Column struct {
	Type    DataType `json:"type"`
	Id      string   `json:"id"`
	Label   string   `json:"label,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

type Row struct {
	Cells      []Cell                 `json:"c"`
	Properties map[string]interface{} `json:"p,omitempty"`
}

type Cell struct {
	Value      interface{}            `json:"v"`
	Format     string                 `json:"f,omitempty"`
	Properties map[string]interface{} `json:"p,omitempty"`
}

type DataType string

const (
	TBool      DataType = "boolean"
	TNumber    DataType = "number"
	TString    DataType = "string"
	TDate      DataType = "date"
	TDatetime  DataType = "datetime"
	TTimeofday DataType = "timeofday"
)

// IndexColumn holds the id of the first column of a table returned by
// NewDataTable, which holds the sample index of each row.
const IndexColumn = "sample"

// NewDataTable returns a data table holding the contents of t. The
// first column holds the sample index; it is followed by one number
// column for each series in registration order, identified and
// labeled by the series name.
// Series shorter than the first have null cells in their missing rows.
func NewDataTable(t *series.Table) *DataTable {
	names := t.Names()
	dt := &DataTable{
		Cols: make([]Column, 0, len(names)+1),
		Rows: make([]Row, t.Len()),
	}
	dt.Cols = append(dt.Cols, Column{
		Type: TNumber,
		Id:   IndexColumn,
	})
	for _, name := range names {
		dt.Cols = append(dt.Cols, Column{
			Type:  TNumber,
			Id:    name,
			Label: name,
		})
	}
	ncols := len(dt.Cols)
	cells := make([]Cell, len(dt.Rows)*ncols)
	for row := range dt.Rows {
		rcells := cells[0:ncols:ncols]
		cells = cells[ncols:]
		rcells[0].Value = row
		for i := range names {
			if s := t.Samples(i); row < len(s) {
				rcells[i+1].Value = s[row]
			}
		}
		dt.Rows[row].Cells = rcells
	}
	return dt
}
