// Package chartimage renders accumulated series data as a PNG
// line chart, for clients that cannot follow the live stream.
package chartimage

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/series"
)

// ErrNoData is returned by Render when there is nothing to draw.
var ErrNoData = errgo.New("no data to render")

const (
	DefaultWidth  = 1024
	DefaultHeight = 600
)

// Params holds parameters for Render.
type Params struct {
	// Title holds the chart title.
	Title string

	// Horizon holds the maximum number of samples shown.
	// Older samples are scrolled out of view. If it's zero,
	// all samples are shown.
	Horizon int

	// Width and Height hold the size of the image in pixels.
	// If zero, DefaultWidth and DefaultHeight are used.
	Width, Height int
}

// Render draws one line for each series in t and writes the
// result to w as a PNG image. The x axis holds the sample index.
func Render(w io.Writer, t *series.Table, p Params) error {
	if t.NumSeries() == 0 || t.Len() == 0 {
		return ErrNoData
	}
	if err := t.Check(); err != nil {
		return errgo.Mask(err, errgo.Is(series.ErrRagged))
	}
	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}
	n := t.Len()
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	ymin, ymax := math.Inf(1), math.Inf(-1)
	var lines []chart.Series
	for i, name := range t.Names() {
		ys := t.Samples(i)
		for _, y := range ys {
			ymin = math.Min(ymin, y)
			ymax = math.Max(ymax, y)
		}
		if n == 1 {
			// A single point has no extent; draw it as a flat segment.
			lines = append(lines, chart.ContinuousSeries{Name: name, XValues: []float64{0, 1}, YValues: []float64{ys[0], ys[0]}})
			continue
		}
		lines = append(lines, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys})
	}
	if ymin == ymax {
		ymin, ymax = ymin-1, ymax+1
	}
	xmax := math.Max(float64(n-1), 1)
	xmin := 0.0
	if p.Horizon > 0 && xmax > float64(p.Horizon) {
		xmin = xmax - float64(p.Horizon)
	}
	ch := chart.Chart{
		Title:      p.Title,
		Width:      p.Width,
		Height:     p.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "sample",
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return errgo.Notef(err, "cannot render chart")
	}
	return nil
}
