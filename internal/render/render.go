// ABOUTME: Renders dashboard figures to SVG or PNG with go-chart.
// ABOUTME: Figures with no plottable points render as a placeholder.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/harperreed/healthboard/internal/dashboard"
)

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s (use svg or png)", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return chart.ContentTypePNG
	}
	return chart.ContentTypeSVG
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Options controls the output size.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns the size used by the web UI.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 520}
}

// NoDataMessage is drawn in place of a chart that has nothing to plot.
const NoDataMessage = "No data to display"

// Render draws fig in the given format to w.
func Render(w io.Writer, fig dashboard.Figure, format Format, opts Options) error {
	if opts.Width == 0 || opts.Height == 0 {
		opts = DefaultOptions()
	}
	if len(fig.Traces) == 0 {
		return Placeholder(w, fig.Title, format, opts)
	}

	var err error
	switch fig.Traces[0].Kind {
	case dashboard.KindLine:
		err = renderLine(w, fig, format, opts)
	case dashboard.KindScatter:
		err = renderScatter(w, fig, format, opts)
	case dashboard.KindBar:
		err = renderBar(w, fig, format, opts)
	default:
		return fmt.Errorf("render %s: unsupported trace kind %q", fig.ID, fig.Traces[0].Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", fig.ID, err)
	}
	return nil
}

// Bytes renders fig and returns the encoded image.
func Bytes(fig dashboard.Figure, format Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, fig, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Placeholder draws a titled blank chart reading NoDataMessage.
func Placeholder(w io.Writer, title string, format Format, opts Options) error {
	r, err := format.provider()(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	chart.Draw.Box(r, chart.Box{Right: opts.Width, Bottom: opts.Height}, chart.Style{
		FillColor:   chart.ColorWhite,
		StrokeColor: chart.ColorWhite,
		StrokeWidth: 1,
	})

	text := color(dashboard.DefaultColors.Text)
	titleStyle := chart.Style{Font: font, FontSize: 20, FontColor: text}
	tb := chart.Draw.MeasureText(r, title, titleStyle)
	chart.Draw.Text(r, title, (opts.Width-tb.Width())/2, 40, titleStyle)

	msgStyle := chart.Style{Font: font, FontSize: 14, FontColor: color(dashboard.DefaultColors.Secondary)}
	mb := chart.Draw.MeasureText(r, NoDataMessage, msgStyle)
	chart.Draw.Text(r, NoDataMessage, (opts.Width-mb.Width())/2, opts.Height/2, msgStyle)

	return r.Save(w)
}

func renderLine(w io.Writer, fig dashboard.Figure, format Format, opts Options) error {
	var series []chart.Series
	var first, last time.Time
	for _, tr := range fig.Traces {
		xs, ys := finiteTimePoints(tr.Dates, tr.Y)
		if len(xs) == 0 {
			continue
		}
		if first.IsZero() || xs[0].Before(first) {
			first = xs[0]
		}
		if last.IsZero() || xs[len(xs)-1].After(last) {
			last = xs[len(xs)-1]
		}
		style := chart.Style{
			StrokeColor: color(tr.LineColor),
			StrokeWidth: widthOr(tr.LineWidth, 2),
		}
		if len(xs) == 1 {
			style.DotColor = style.StrokeColor
			style.DotWidth = 4
		}
		series = append(series, chart.TimeSeries{
			Name:    tr.Name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return Placeholder(w, fig.Title, format, opts)
	}
	if !last.After(first) {
		first, last = first.Add(-12*time.Hour), last.Add(12*time.Hour)
	}
	for _, l := range fig.RefLines {
		series = append(series, chart.TimeSeries{
			Name:    l.Annotation,
			Style:   refLineStyle(l),
			XValues: []time.Time{first, last},
			YValues: []float64{l.Y, l.Y},
		})
	}

	ch := baseChart(fig, opts)
	ch.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat("Jan 02")
	ch.XAxis.Range = &chart.ContinuousRange{
		Min: chart.TimeToFloat64(first),
		Max: chart.TimeToFloat64(last),
	}
	ch.Series = series
	if yr := yRange(series); yr != nil {
		ch.YAxis.Range = yr
	}
	return ch.Render(format.provider(), w)
}

func renderScatter(w io.Writer, fig dashboard.Figure, format Format, opts Options) error {
	tr := fig.Traces[0]
	var xs, ys, sizes, colors []float64
	for i := range tr.Y {
		x, y := at(tr.X, i), tr.Y[i]
		if !isFinite(x) || !isFinite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
		sizes = append(sizes, at(tr.Size, i))
		colors = append(colors, at(tr.Color, i))
	}
	if len(xs) == 0 {
		return Placeholder(w, fig.Title, format, opts)
	}

	sizeLo, sizeHi := bounds(sizes)
	colorLo, colorHi := bounds(colors)
	style := chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    6,
		DotColor:    color(dashboard.DefaultColors.Primary),
	}
	if len(tr.Size) > 0 {
		style.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
			return scale(sizes[index], sizeLo, sizeHi, 4, 14)
		}
	}
	if len(tr.Color) > 0 {
		style.DotColorProvider = func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
			if !isFinite(colors[index]) {
				return chart.ColorAlternateGray
			}
			if colorHi == colorLo {
				return chart.Viridis(0.5, 0, 1)
			}
			return chart.Viridis(colors[index], colorLo, colorHi)
		}
	}

	series := []chart.Series{chart.ContinuousSeries{
		Name:    tr.Name,
		Style:   style,
		XValues: xs,
		YValues: ys,
	}}
	lo, hi := bounds(xs)
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	for _, l := range fig.RefLines {
		series = append(series, chart.ContinuousSeries{
			Name:    l.Annotation,
			Style:   refLineStyle(l),
			XValues: []float64{lo, hi},
			YValues: []float64{l.Y, l.Y},
		})
	}

	ch := baseChart(fig, opts)
	ch.XAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	ch.Series = series
	if yr := yRange(series); yr != nil {
		ch.YAxis.Range = yr
	}
	if tr.SizeColumn != "" || tr.ColorColumn != "" {
		ch.Elements = []chart.Renderable{encodingKey(tr, colorLo, colorHi)}
	}
	return ch.Render(format.provider(), w)
}

func renderBar(w io.Writer, fig dashboard.Figure, format Format, opts Options) error {
	tr := fig.Traces[0]
	labels := barLabels(tr)
	fill := color(tr.MarkerColor)

	var bars []chart.Value
	for _, i := range barOrder(tr) {
		v := tr.Y[i]
		if !isFinite(v) {
			continue
		}
		bars = append(bars, chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		})
	}
	if len(bars) == 0 {
		return Placeholder(w, fig.Title, format, opts)
	}
	thinLabels(bars, 12)

	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	for _, l := range fig.RefLines {
		lo = math.Min(lo, l.Y)
		hi = math.Max(hi, l.Y)
	}
	if hi == lo {
		hi = lo + 1
	}
	yr := &chart.ContinuousRange{Min: lo, Max: niceCeil(hi * 1.1)}

	text := color(fig.Style.FontColor)
	bc := chart.BarChart{
		Title:      fig.Title,
		TitleStyle: chart.Style{FontSize: fig.Style.TitleFontSize, FontColor: text},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{
			FillColor: color(fig.Style.Background),
			Padding:   chart.Box{Top: 60, Left: 44, Right: 20, Bottom: 60},
		},
		XAxis: chart.Style{FontSize: fig.Style.FontSize * 0.75, FontColor: text},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: fig.Style.FontSize * 0.75, FontColor: text},
			Range: yr,
		},
		Bars: bars,
	}
	if fig.YLabel != "" {
		bc.Elements = append(bc.Elements, axisName(fig.YLabel, chart.Style{FontSize: fig.Style.FontSize * 0.75, FontColor: text}))
	}
	for _, l := range fig.RefLines {
		bc.Elements = append(bc.Elements, refLine(l, yr))
	}
	return bc.Render(format.provider(), w)
}

func baseChart(fig dashboard.Figure, opts Options) chart.Chart {
	text := color(fig.Style.FontColor)
	axis := chart.Style{FontSize: fig.Style.FontSize * 0.75, FontColor: text}
	return chart.Chart{
		Title:      fig.Title,
		TitleStyle: chart.Style{FontSize: fig.Style.TitleFontSize, FontColor: text},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{
			FillColor: color(fig.Style.Background),
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: fig.XLabel, NameStyle: axis, Style: axis},
		YAxis: chart.YAxis{Name: fig.YLabel, NameStyle: axis, Style: axis},
	}
}

// refLine draws a horizontal dashed line at l.Y on a bar chart canvas whose
// value axis is yr, with the annotation under its left end.
func refLine(l dashboard.RefLine, yr *chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		y := box.Bottom - yr.Translate(l.Y)

		refLineStyle(l).WriteDrawingOptionsToRenderer(r)
		r.MoveTo(box.Left, y)
		r.LineTo(box.Right, y)
		r.Stroke()
		r.ResetStyle()

		if l.Annotation == "" {
			return
		}
		style := chart.Style{
			Font:      defaults.GetFont(),
			FontSize:  10,
			FontColor: color(l.Color),
		}
		tb := chart.Draw.MeasureText(r, l.Annotation, style)
		x := box.Left + 6
		ty := y + tb.Height() + 4
		if strings.HasPrefix(l.AnnotationPosition, "top") {
			ty = y - 4
		}
		if strings.HasSuffix(l.AnnotationPosition, "right") {
			x = box.Right - tb.Width() - 6
		}
		chart.Draw.Text(r, l.Annotation, x, ty, style)
	}
}

// axisName draws a value axis name rotated along the left edge of a bar
// chart canvas. The SVG renderer keeps text rotation across ResetStyle, so it
// is cleared explicitly afterwards.
func axisName(name string, style chart.Style) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		s := style
		s.Font = defaults.GetFont()
		r.ClearTextRotation()
		tb := chart.Draw.MeasureText(r, name, s)

		s.TextRotationDegrees = 270
		x := box.Left - 16
		y := box.Top + box.Height()/2 + tb.Width()/2
		chart.Draw.Text(r, name, x, y, s)
		r.ClearTextRotation()
	}
}

// encodingKey notes which columns drive marker size and colour.
func encodingKey(tr dashboard.Trace, lo, hi float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		style := chart.Style{
			Font:      defaults.GetFont(),
			FontSize:  9,
			FontColor: color(dashboard.DefaultColors.Secondary),
		}
		var parts []string
		if tr.SizeColumn != "" {
			parts = append(parts, "size: "+tr.SizeColumn)
		}
		if tr.ColorColumn != "" {
			if isFinite(lo) && isFinite(hi) {
				parts = append(parts, fmt.Sprintf("colour: %s (%.0f to %.0f)", tr.ColorColumn, lo, hi))
			} else {
				parts = append(parts, "colour: "+tr.ColorColumn)
			}
		}
		key := strings.Join(parts, ", ")
		tb := chart.Draw.MeasureText(r, key, style)
		chart.Draw.Text(r, key, box.Right-tb.Width()-8, box.Top+tb.Height()+8, style)
	}
}

func refLineStyle(l dashboard.RefLine) chart.Style {
	s := chart.Style{
		StrokeColor: color(l.Color),
		StrokeWidth: 2,
	}
	if l.Dash == "dash" {
		s.StrokeDashArray = []float64{8, 6}
	}
	return s
}

// barLabels returns one x label per point of a bar trace.
func barLabels(tr dashboard.Trace) []string {
	labels := make([]string, len(tr.Y))
	for i := range labels {
		switch {
		case i < len(tr.Categories):
			labels[i] = tr.Categories[i]
		case i < len(tr.Dates):
			labels[i] = tr.Dates[i].Format("Jan 02")
		}
	}
	return labels
}

// barOrder returns the indexes of a bar trace in drawing order: categories as
// given, dated bars by ascending date.
func barOrder(tr dashboard.Trace) []int {
	order := make([]int, len(tr.Y))
	for i := range order {
		order[i] = i
	}
	if len(tr.Categories) == 0 && len(tr.Dates) >= len(tr.Y) {
		slices.SortStableFunc(order, func(a, b int) int {
			return tr.Dates[a].Compare(tr.Dates[b])
		})
	}
	return order
}

// thinLabels blanks labels so that at most limit remain, evenly spaced.
func thinLabels(bars []chart.Value, limit int) {
	if len(bars) <= limit {
		return
	}
	step := int(math.Ceil(float64(len(bars)) / float64(limit)))
	for i := range bars {
		if i%step != 0 {
			bars[i].Label = ""
		}
	}
}

// yRange pads the value range of the given series so flat data still renders.
func yRange(series []chart.Series) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		vp, ok := s.(chart.ValuesProvider)
		if !ok {
			continue
		}
		for i := 0; i < vp.Len(); i++ {
			_, y := vp.GetValues(i)
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

type timePoint struct {
	x time.Time
	y float64
}

// finiteTimePoints drops missing values and returns the rest in date order.
func finiteTimePoints(dates []time.Time, ys []float64) ([]time.Time, []float64) {
	var points []timePoint
	for i, y := range ys {
		if i >= len(dates) || !isFinite(y) {
			continue
		}
		points = append(points, timePoint{x: dates[i], y: y})
	}
	slices.SortStableFunc(points, func(a, b timePoint) int {
		return a.x.Compare(b.x)
	})

	xs := make([]time.Time, len(points))
	out := make([]float64, len(points))
	for i, p := range points {
		xs[i], out[i] = p.x, p.y
	}
	return xs, out
}

func at(vals []float64, i int) float64 {
	if i >= len(vals) {
		return math.NaN()
	}
	return vals[i]
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// scale maps v from [lo, hi] onto [outLo, outHi]; missing values map to the midpoint.
func scale(v, lo, hi, outLo, outHi float64) float64 {
	if !isFinite(v) || !isFinite(lo) || hi <= lo {
		return (outLo + outHi) / 2
	}
	return outLo + (v-lo)/(hi-lo)*(outHi-outLo)
}

// niceCeil rounds v up to 1, 2, 2.5, or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		if c*mag >= v {
			return c * mag
		}
	}
	return 10 * mag
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func widthOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// color parses a CSS hex colour or a basic colour name.
func color(s string) drawing.Color {
	if strings.HasPrefix(s, "#") {
		return drawing.ColorFromHex(s)
	}
	if s == "" {
		return chart.ColorBlack
	}
	return drawing.ColorFromKnown(s)
}
