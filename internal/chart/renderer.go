package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

var volumeColor = drawing.ColorFromHex("1f77b4")

// Renderer draws close-price line charts as PNG, optionally with a
// trading-volume panel underneath.
type Renderer struct {
	width        int
	height       int
	volumeHeight int
	location     *time.Location
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithVolume adds a volume panel of the given height in pixels below the
// price chart. Zero or negative disables it.
func WithVolume(height int) Option {
	return func(r *Renderer) {
		r.volumeHeight = max(height, 0)
	}
}

// WithLocation sets the zone axis labels are printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// NewRenderer creates a chart renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight, location: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render plots the series' close prices, titled with period. Series with
// fewer than two bars cannot be drawn and return core.ErrChartFailed.
func (r *Renderer) Render(series core.PriceSeries, period string) ([]byte, error) {
	if len(series.Bars) < 2 {
		return nil, core.WrapError(core.ErrChartFailed,
			fmt.Errorf("need at least 2 bars, got %d", len(series.Bars)))
	}

	xs := make([]time.Time, len(series.Bars))
	ys := make([]float64, len(series.Bars))
	lo, hi := series.Bars[0].Close, series.Bars[0].Close
	for i, b := range series.Bars {
		xs[i] = b.Time
		ys[i] = b.Close
		lo = min(lo, b.Close)
		hi = max(hi, b.Close)
	}

	xAxis := gochart.XAxis{
		Name:           "Date",
		ValueFormatter: gochart.TimeValueFormatterWithFormat(time.DateOnly),
	}
	if ticks := Ticks(series.Bars, period, r.location); len(ticks) > 0 {
		xAxis.Ticks = make([]gochart.Tick, len(ticks))
		for i, t := range ticks {
			xAxis.Ticks[i] = gochart.Tick{Value: gochart.TimeToFloat64(t.Time), Label: t.Label}
		}
	}

	yAxis := gochart.YAxis{Name: "Price"}
	if lo == hi {
		// A flat line has a zero-height range the library refuses to draw.
		yAxis.Range = &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	title := "Stock Performance"
	if period != "" {
		title += " Over " + period
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: xAxis,
		YAxis: yAxis,
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Close Price",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, core.WrapError(core.ErrChartFailed, err)
	}
	if r.volumeHeight == 0 {
		return buf.Bytes(), nil
	}

	panel, ok, err := r.renderVolume(series.Bars, xs, xAxis)
	if err != nil {
		return nil, core.WrapError(core.ErrChartFailed, err)
	}
	if !ok {
		return buf.Bytes(), nil
	}
	out, err := stack(buf.Bytes(), panel)
	if err != nil {
		return nil, core.WrapError(core.ErrChartFailed, err)
	}
	return out, nil
}

// renderVolume draws traded volume as a filled series sharing the price
// chart's x axis. ok is false when the source reported no volume.
func (r *Renderer) renderVolume(bars []core.Bar, xs []time.Time, xAxis gochart.XAxis) ([]byte, bool, error) {
	vs := make([]float64, len(bars))
	var peak float64
	for i, b := range bars {
		vs[i] = float64(b.Volume)
		peak = max(peak, vs[i])
	}
	if peak == 0 {
		return nil, false, nil
	}

	xAxis.Name = ""
	graph := gochart.Chart{
		Width:  r.width,
		Height: r.volumeHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 10, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: xAxis,
		YAxis: gochart.YAxis{
			Name:           "Volume",
			Range:          &gochart.ContinuousRange{Min: 0, Max: peak},
			ValueFormatter: volumeLabel,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Volume",
				XValues: xs,
				YValues: vs,
				Style: gochart.Style{
					StrokeColor: volumeColor,
					FillColor:   volumeColor.WithAlpha(96),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

// stack joins two PNGs vertically, top first.
func stack(top, bottom []byte) ([]byte, error) {
	a, err := png.Decode(bytes.NewReader(top))
	if err != nil {
		return nil, fmt.Errorf("decoding price chart: %w", err)
	}
	b, err := png.Decode(bytes.NewReader(bottom))
	if err != nil {
		return nil, fmt.Errorf("decoding volume panel: %w", err)
	}

	ab, bb := a.Bounds(), b.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, max(ab.Dx(), bb.Dx()), ab.Dy()+bb.Dy()))
	draw.Draw(canvas, image.Rect(0, 0, ab.Dx(), ab.Dy()), a, ab.Min, draw.Src)
	draw.Draw(canvas, image.Rect(0, ab.Dy(), bb.Dx(), ab.Dy()+bb.Dy()), b, bb.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding chart: %w", err)
	}
	return buf.Bytes(), nil
}

// volumeLabel prints axis values as 1.2K, 3.4M or 5.6B.
func volumeLabel(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	switch {
	case f >= 1e9:
		return strconv.FormatFloat(f/1e9, 'f', 1, 64) + "B"
	case f >= 1e6:
		return strconv.FormatFloat(f/1e6, 'f', 1, 64) + "M"
	case f >= 1e3:
		return strconv.FormatFloat(f/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
}

// EncodeBase64 returns the image as standard base64 for inline embedding.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
