// ABOUTME: Renders dashboard charts by ID, backed by the render cache.
// ABOUTME: Shared by the HTTP server, the render command, and the publisher.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/healthboard/internal/cache"
	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/metrics"
	"github.com/harperreed/healthboard/internal/render"
	"github.com/harperreed/healthboard/internal/table"
)

// ErrUnknownChart is returned for a chart ID that is not on the dashboard.
var ErrUnknownChart = errors.New("unknown chart")

// Charts builds and renders the dashboard figures of one table.
// Cache and Metrics are optional.
type Charts struct {
	table       *table.Table
	fingerprint string
	opts        render.Options

	Cache   *cache.Cache
	Metrics *metrics.Recorder
}

// NewCharts returns a chart renderer for t.
func NewCharts(t *table.Table, opts render.Options) *Charts {
	return &Charts{
		table:       t,
		fingerprint: t.Fingerprint(),
		opts:        opts,
	}
}

// Table returns the table the charts are drawn from.
func (c *Charts) Table() *table.Table {
	return c.table
}

// Figure builds the figure for a chart ID.
func (c *Charts) Figure(id string) (dashboard.Figure, error) {
	chart, ok := dashboard.Lookup(id)
	if !ok {
		return dashboard.Figure{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	return chart.Build(c.table), nil
}

// Render returns the encoded image of a chart.
func (c *Charts) Render(id string, format render.Format) ([]byte, error) {
	fig, err := c.Figure(id)
	if err != nil {
		return nil, err
	}

	draw := func() ([]byte, error) {
		start := time.Now()
		data, err := render.Bytes(fig, format, c.opts)
		if err != nil {
			return nil, err
		}
		if c.Metrics != nil {
			c.Metrics.ObserveRender(id, string(format), time.Since(start))
		}
		return data, nil
	}

	if c.Cache == nil {
		return draw()
	}

	data, hit, err := c.Cache.GetOrCompute(cache.Key(c.fingerprint, id, string(format), c.opts.Width, c.opts.Height), draw)
	if err != nil {
		return nil, err
	}
	if c.Metrics != nil {
		if hit {
			c.Metrics.CacheHit()
		} else {
			c.Metrics.CacheMiss()
		}
	}
	return data, nil
}
