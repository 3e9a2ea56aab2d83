// ABOUTME: Renderer-independent chart description returned by chart producers.
// ABOUTME: Figures are plain data so they can be rendered, cached, or served as JSON.
package dashboard

import (
	"encoding/json"
	"math"
	"time"
)

// Kind is the chart primitive used by a trace.
type Kind string

const (
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
	KindScatter Kind = "scatter"
)

// Figure describes one chart.
type Figure struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	XLabel   string    `json:"x_label"`
	YLabel   string    `json:"y_label"`
	Traces   []Trace   `json:"traces"`
	RefLines []RefLine `json:"ref_lines,omitempty"`
	Style    Style     `json:"style"`
}

// Trace is one data series of a figure.
// Exactly one of Dates, Categories, or X carries the x values.
type Trace struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	XColumn string `json:"x_column"`
	YColumn string `json:"y_column"`

	Dates      []time.Time `json:"dates,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	X          Series      `json:"x,omitempty"`
	Y          Series      `json:"y"`

	// Marker size and colour encodings for scatter traces.
	SizeColumn  string `json:"size_column,omitempty"`
	Size        Series `json:"size,omitempty"`
	ColorColumn string `json:"color_column,omitempty"`
	Color       Series `json:"color,omitempty"`

	LineColor   string  `json:"line_color,omitempty"`
	LineWidth   float64 `json:"line_width,omitempty"`
	MarkerColor string  `json:"marker_color,omitempty"`
}

// RefLine is a horizontal reference line drawn across the plot.
type RefLine struct {
	Y                  float64 `json:"y"`
	Dash               string  `json:"dash"`
	Color              string  `json:"color"`
	Annotation         string  `json:"annotation,omitempty"`
	AnnotationPosition string  `json:"annotation_position,omitempty"`
}

// Style carries the shared typography of a figure.
type Style struct {
	FontSize      float64 `json:"font_size"`
	FontColor     string  `json:"font_color"`
	TitleFontSize float64 `json:"title_font_size"`
	Background    string  `json:"background"`
}

// Len returns the number of points in the trace.
func (t Trace) Len() int {
	return len(t.Y)
}

// Finite reports how many points have a finite y value.
func (t Trace) Finite() int {
	n := 0
	for _, v := range t.Y {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no trace has a plottable point.
func (f Figure) IsEmpty() bool {
	for _, t := range f.Traces {
		if t.Finite() > 0 {
			return false
		}
	}
	return true
}

// Series is a column of values where NaN marks a missing cell.
// It encodes NaN and infinities as JSON null.
type Series []float64

// MarshalJSON implements json.Marshaler.
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(s))
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[i] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Series) UnmarshalJSON(data []byte) error {
	var in []*float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(Series, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}
