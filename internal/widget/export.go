package widget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"chartbridge/internal/chartmodel"

	"github.com/vincent-petithory/dataurl"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// MaxImageSide bounds either side of an exported image, in pixels.
const MaxImageSide = 8192

// ErrInvalidImageSize is returned for non-positive or oversized images.
var ErrInvalidImageSize = errors.New("invalid image size")

var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// ExportImage renders view as a PNG and returns it as a data URL. It only
// reads its arguments, so it may run off the UI loop.
func (c *Chart) ExportImage(ctx context.Context, view chartmodel.UIModel, width, height int) (string, error) {
	return EncodePNG(ctx, view, width, height)
}

// EncodePNG renders a model to a data:image/png;base64 URL of the given size.
func EncodePNG(ctx context.Context, view chartmodel.UIModel, width, height int) (string, error) {
	if width <= 0 || height <= 0 || width > MaxImageSide || height > MaxImageSide {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidImageSize, width, height)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ch := buildChart(view, width, height)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

func buildChart(view chartmodel.UIModel, width, height int) chart.Chart {
	series := make([]chart.Series, 0, len(view.Data))
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)

	for i, t := range view.Data {
		key := seriesKey(t)
		ys := t.Values(key)
		if len(ys) == 0 {
			continue
		}
		xs := t.Values("x")
		if key == "x" || len(xs) != len(ys) {
			xs = make([]float64, len(ys))
			for j := range xs {
				xs[j] = float64(j)
			}
		}
		// a single point still needs a two-value range
		if len(ys) == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		for j := range xs {
			xMin, xMax = math.Min(xMin, xs[j]), math.Max(xMax, xs[j])
			yMin, yMax = math.Min(yMin, ys[j]), math.Max(yMax, ys[j])
		}
		col := seriesPalette[i%len(seriesPalette)]
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name(fmt.Sprintf("trace %d", i)),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
		})
	}

	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		})
		xMin, xMax, yMin, yMax = 0, 1, 0, 0
	}

	ch := chart.Chart{
		Title:  view.Layout.Title(),
		Width:  width,
		Height: height,
		Series: series,
	}
	if lo, hi, ok := view.Layout.AxisRange(chartmodel.XAxisKey); ok {
		ch.XAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	} else if xMin == xMax {
		ch.XAxis.Range = &chart.ContinuousRange{Min: xMin - 1, Max: xMax + 1}
	}
	if lo, hi, ok := view.Layout.AxisRange(chartmodel.YAxisKey); ok {
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	} else if yMin == yMax {
		ch.YAxis.Range = &chart.ContinuousRange{Min: yMin - 1, Max: yMax + 1}
	}
	if len(view.Data) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}
