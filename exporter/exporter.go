// Package exporter serializes accumulated series data
// as comma-separated text.
package exporter

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/juju/utils"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/series"
)

// FileName holds the name of the file that exported
// data is saved as.
const FileName = "data.csv"

// ErrNoData is returned when there is nothing to export.
var ErrNoData = errgo.New("no data available to download")

// Write writes the contents of t to w. The first row holds the
// series names in registration order; each subsequent row holds
// the samples at one index, in the same column order.
//
// It returns ErrNoData if t holds no series, and an error with
// a series.ErrRagged cause if the series differ in length.
func Write(w io.Writer, t *series.Table) error {
	if t.NumSeries() == 0 {
		return ErrNoData
	}
	if err := t.Check(); err != nil {
		return errgo.Mask(err, errgo.Is(series.ErrRagged))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return errgo.Mask(err)
	}
	row := make([]string, t.NumSeries())
	for r, n := 0, t.Len(); r < n; r++ {
		for i := range row {
			row[i] = strconv.FormatFloat(t.Samples(i)[r], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return errgo.Mask(err)
		}
	}
	cw.Flush()
	return errgo.Mask(cw.Error())
}

// Save writes the contents of t to FileName inside dir,
// replacing any existing file atomically, and returns
// the path of the file. Errors are as for Write.
func Save(dir string, t *series.Table) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return "", errgo.Mask(err, errgo.Is(ErrNoData), errgo.Is(series.ErrRagged))
	}
	path := filepath.Join(dir, FileName)
	if err := utils.AtomicWriteFile(path, buf.Bytes(), 0666); err != nil {
		return "", errgo.Notef(err, "cannot save exported data")
	}
	return path, nil
}
