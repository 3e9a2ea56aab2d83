// ABOUTME: Tests for figure rendering.
// ABOUTME: Renders every chart to SVG and PNG and checks placeholders for empty data.
package render

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/table"
)

const sampleCSV = "Date,Blood Glucose,Breakfast Calories,Lunch Calories,Dinner Calories,Desert Calories,Total Calories,Exercise (minutes),Heart Rate,Systolic,Diastolic\n" +
	"2024-01-01,110,300,500,700,100,1600,30,72,120,80\n" +
	"2024-01-02,105,400,600,500,0,1500,45,68,118,78\n" +
	"2024-01-03,98,200,400,600,200,1400,0,75,125,82\n"

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return tbl
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestRenderAllChartsSVG(t *testing.T) {
	tbl := sampleTable(t)
	for _, c := range dashboard.Charts {
		t.Run(c.ID, func(t *testing.T) {
			out, err := Bytes(c.Build(tbl), FormatSVG, DefaultOptions())
			require.NoError(t, err)
			svg := string(out)
			assert.Contains(t, svg, "<svg")
			assert.NotContains(t, svg, NoDataMessage)
		})
	}
}

func TestRenderAllChartsPNG(t *testing.T) {
	tbl := sampleTable(t)
	for _, c := range dashboard.Charts {
		out, err := Bytes(c.Build(tbl), FormatPNG, Options{Width: 640, Height: 360})
		require.NoError(t, err, c.ID)
		assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")), c.ID)
	}
}

func TestDailyCalorieChartDrawsLimit(t *testing.T) {
	fig := dashboard.DailyCalorieIntake(sampleTable(t))
	out, err := Bytes(fig, FormatSVG, DefaultOptions())
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, "1500 kcal Limit")

	limitY := dashedLineY(t, svg)
	tops := barTops(svg, fig.Traces[0].MarkerColor)
	require.Len(t, tops, 3)
	// Bars are 1600, 1500, and 1400 kcal.
	assert.Equal(t, tops[1], limitY, "limit line should sit on the top of the 1500 kcal bar")
	assert.Less(t, tops[0], limitY)
	assert.Greater(t, tops[2], limitY)
}

func TestChartTitlesAreNotRotated(t *testing.T) {
	tbl := sampleTable(t)
	for _, c := range dashboard.Charts {
		t.Run(c.ID, func(t *testing.T) {
			fig := c.Build(tbl)
			out, err := Bytes(fig, FormatSVG, DefaultOptions())
			require.NoError(t, err)

			title := textElement(string(out), fig.Title)
			require.NotEmpty(t, title, "title not drawn")
			assert.NotContains(t, title, "rotate")
		})
	}
}

func TestBarAxisNameIsDrawn(t *testing.T) {
	fig := dashboard.CalorieIntake(sampleTable(t))
	out, err := Bytes(fig, FormatSVG, DefaultOptions())
	require.NoError(t, err)

	name := textElement(string(out), fig.YLabel)
	require.NotEmpty(t, name)
	assert.Contains(t, name, "rotate(270.00")
}

func TestDescendingDatesRender(t *testing.T) {
	lines := strings.SplitAfter(sampleCSV, "\n")
	reversed := lines[0] + lines[3] + lines[2] + lines[1]
	tbl, err := table.Read(strings.NewReader(reversed))
	require.NoError(t, err)

	glucose := dashboard.GlucoseTrend(tbl)
	out, err := Bytes(glucose, FormatSVG, DefaultOptions())
	require.NoError(t, err)
	svg := string(out)
	assert.NotContains(t, svg, NoDataMessage)

	xs := strokeXs(svg, glucose.Traces[0].LineColor)
	require.Len(t, xs, 3)
	assert.Less(t, xs[0], xs[1])
	assert.Less(t, xs[1], xs[2])

	daily := dashboard.DailyCalorieIntake(tbl)
	out, err = Bytes(daily, FormatSVG, DefaultOptions())
	require.NoError(t, err)
	tops := barTops(string(out), daily.Traces[0].MarkerColor)
	require.Len(t, tops, 3)
	// Drawn by ascending date: 1600, 1500, 1400 kcal.
	assert.Less(t, tops[0], tops[1])
	assert.Less(t, tops[1], tops[2])
}

func TestEmptyTableRendersPlaceholder(t *testing.T) {
	for _, c := range dashboard.Charts {
		t.Run(c.ID, func(t *testing.T) {
			out, err := Bytes(c.Build(table.Empty()), FormatSVG, DefaultOptions())
			require.NoError(t, err)
			assert.Contains(t, string(out), NoDataMessage)
		})
	}
}

func TestSingleDayIsDrawn(t *testing.T) {
	tbl, err := table.Read(strings.NewReader(strings.SplitAfterN(sampleCSV, "\n", 3)[0] +
		"2024-01-01,110,300,500,700,100,1600,30,72,120,80\n"))
	require.NoError(t, err)

	for _, c := range dashboard.Charts {
		out, err := Bytes(c.Build(tbl), FormatSVG, DefaultOptions())
		require.NoError(t, err, c.ID)
		assert.NotContains(t, string(out), NoDataMessage, c.ID)
	}

	out, err := Bytes(dashboard.GlucoseTrend(tbl), FormatSVG, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<circle")
}

func TestFlatExerciseScatterIsDrawn(t *testing.T) {
	tbl, err := table.Read(strings.NewReader(strings.SplitAfterN(sampleCSV, "\n", 2)[0] +
		"2024-01-01,110,300,500,700,100,1600,0,72,120,80\n" +
		"2024-01-02,105,400,600,500,0,1500,0,68,118,78\n"))
	require.NoError(t, err)

	out, err := Bytes(dashboard.HealthMetrics(tbl), FormatSVG, DefaultOptions())
	require.NoError(t, err)
	svg := string(out)
	assert.NotContains(t, svg, NoDataMessage)
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
}

func TestThinLabels(t *testing.T) {
	bars := make([]chart.Value, 30)
	for i := range bars {
		bars[i].Label = strconv.Itoa(i)
	}
	thinLabels(bars, 12)

	kept := 0
	for _, b := range bars {
		if b.Label != "" {
			kept++
		}
	}
	assert.LessOrEqual(t, kept, 12)
	assert.Equal(t, "0", bars[0].Label)
	assert.Empty(t, bars[1].Label)
}

func TestNiceCeil(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1760, 2000},
		{660, 1000},
		{230, 250},
		{0, 1},
		{100, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, niceCeil(tt.in), "niceCeil(%v)", tt.in)
	}
}

func TestScale(t *testing.T) {
	assert.Equal(t, 4.0, scale(100, 100, 200, 4, 14))
	assert.Equal(t, 14.0, scale(200, 100, 200, 4, 14))
	assert.Equal(t, 9.0, scale(150, 150, 150, 4, 14))
}

var (
	pathPattern = regexp.MustCompile(`<path\s*(stroke-dasharray="[^"]*")?\s*d="([^"]*)"\s*style="([^"]*)"\s*/>`)
	movePattern = regexp.MustCompile(`[ML] (-?\d+) (-?\d+)`)
)

type svgPath struct {
	dashed bool
	points [][2]int
	style  string
}

func svgPaths(svg string) []svgPath {
	var paths []svgPath
	for _, m := range pathPattern.FindAllStringSubmatch(svg, -1) {
		p := svgPath{dashed: m[1] != "", style: m[3]}
		for _, pt := range movePattern.FindAllStringSubmatch(m[2], -1) {
			x, _ := strconv.Atoi(pt[1])
			y, _ := strconv.Atoi(pt[2])
			p.points = append(p.points, [2]int{x, y})
		}
		paths = append(paths, p)
	}
	return paths
}

// dashedLineY returns the y of the single horizontal dashed line.
func dashedLineY(t *testing.T, svg string) int {
	t.Helper()
	for _, p := range svgPaths(svg) {
		if p.dashed && len(p.points) == 2 && p.points[0][1] == p.points[1][1] {
			return p.points[0][1]
		}
	}
	t.Fatal("no dashed line found")
	return 0
}

// barTops returns the top edge of each filled rectangle in the marker colour.
func barTops(svg, marker string) []int {
	fill := "fill:" + color(marker).String()
	var tops []int
	for _, p := range svgPaths(svg) {
		if !p.dashed && len(p.points) == 5 && strings.Contains(p.style, fill) {
			tops = append(tops, p.points[0][1])
		}
	}
	return tops
}

// strokeXs returns the x of every vertex of the first path stroked in c.
func strokeXs(svg, c string) []int {
	stroke := "stroke:" + color(c).String()
	for _, p := range svgPaths(svg) {
		if strings.Contains(p.style, stroke) && len(p.points) > 1 {
			xs := make([]int, len(p.points))
			for i, pt := range p.points {
				xs[i] = pt[0]
			}
			return xs
		}
	}
	return nil
}

// textElement returns the first <text> element whose body is body.
func textElement(svg, body string) string {
	end := strings.Index(svg, ">"+body+"</text>")
	if end < 0 {
		return ""
	}
	start := strings.LastIndex(svg[:end], "<text")
	if start < 0 {
		return ""
	}
	return svg[start : end+len(body)+len("></text>")]
}
