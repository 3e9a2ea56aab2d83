// ABOUTME: MCP tool implementations for the health dashboard.
// ABOUTME: Read-only tools over chart figures, meal averages, and daily records.
package mcp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/models"
	"github.com/harperreed/healthboard/internal/storage"
	"github.com/harperreed/healthboard/internal/table"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_charts",
		Description: "List the dashboard charts with their IDs and tab labels",
	}, s.handleListCharts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_figure",
		Description: "Get the data and styling of one dashboard chart",
	}, s.handleGetFigure)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get headline numbers: days logged, meal averages, glucose range, days over the calorie limit",
	}, s.handleGetSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "meal_averages",
		Description: "Average calories per meal type, optionally since a date",
	}, s.handleMealAverages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_totals",
		Description: "Total calories per day compared with the 1500 kcal limit",
	}, s.handleDailyTotals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List daily health records, oldest first",
	}, s.handleListRecords)
}

// Tool input/output types

type listChartsInput struct{}

type chartInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

type listChartsOutput struct {
	Charts []chartInfo `json:"charts"`
}

type getFigureInput struct {
	ID string `json:"id" jsonschema:"Chart ID (glucose-trend, calorie-intake, health-metrics, daily-calorie-intake)"`
}

type summaryInput struct{}

type sinceInput struct {
	Since string `json:"since,omitempty" jsonschema:"Only include days on or after this date (YYYY-MM-DD)"`
}

type dailyTotalsInput struct {
	Since         string `json:"since,omitempty" jsonschema:"Only include days on or after this date (YYYY-MM-DD)"`
	OverLimitOnly bool   `json:"over_limit_only,omitempty" jsonschema:"Only include days above the calorie limit"`
}

type listRecordsInput struct {
	Since string `json:"since,omitempty" jsonschema:"Only include days on or after this date (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results from the most recent end (default 30)"`
}

type dailyTotal struct {
	Date          string   `json:"date"`
	TotalCalories *float64 `json:"total_calories"`
	OverLimit     bool     `json:"over_limit"`
}

// Tool handlers

func (s *Server) handleListCharts(ctx context.Context, req *mcp.CallToolRequest, input listChartsInput) (*mcp.CallToolResult, listChartsOutput, error) {
	out := listChartsOutput{Charts: make([]chartInfo, 0, len(dashboard.Charts))}
	for _, c := range dashboard.Charts {
		out.Charts = append(out.Charts, chartInfo{
			ID:    c.ID,
			Label: c.Label,
			Title: c.Build(table.Empty()).Title,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetFigure(ctx context.Context, req *mcp.CallToolRequest, input getFigureInput) (*mcp.CallToolResult, any, error) {
	c, ok := dashboard.Lookup(input.ID)
	if !ok {
		return nil, nil, fmt.Errorf("unknown chart: %s", input.ID)
	}
	return nil, c.Build(s.table), nil
}

func (s *Server) handleGetSummary(ctx context.Context, req *mcp.CallToolRequest, input summaryInput) (*mcp.CallToolResult, any, error) {
	return nil, dashboard.Summarize(s.table), nil
}

func (s *Server) handleMealAverages(ctx context.Context, req *mcp.CallToolRequest, input sinceInput) (*mcp.CallToolResult, any, error) {
	t, err := s.since(input.Since)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{
		"days":     t.Len(),
		"averages": dashboard.Summarize(t).MealAverages,
	}, nil
}

func (s *Server) handleDailyTotals(ctx context.Context, req *mcp.CallToolRequest, input dailyTotalsInput) (*mcp.CallToolResult, any, error) {
	t, err := s.since(input.Since)
	if err != nil {
		return nil, nil, err
	}

	dates := t.Dates()
	totals := t.Floats(models.ColumnTotalCalories)
	days := make([]dailyTotal, 0, len(dates))
	for i, d := range dates {
		day := dailyTotal{Date: d.Format("2006-01-02")}
		if v := totals[i]; !math.IsNaN(v) {
			day.TotalCalories = &v
			day.OverLimit = v > dashboard.CalorieLimit
		}
		if input.OverLimitOnly && !day.OverLimit {
			continue
		}
		days = append(days, day)
	}

	return nil, map[string]interface{}{
		"limit": dashboard.CalorieLimit,
		"days":  days,
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 30
	}

	t, err := s.since(input.Since)
	if err != nil {
		return nil, nil, err
	}

	records := t.Records()
	if len(records) > input.Limit {
		records = records[len(records)-input.Limit:]
	}
	if len(records) == 0 {
		return nil, map[string]interface{}{"message": "No records found."}, nil
	}

	out := make([]storage.ExportRecord, 0, len(records))
	for _, r := range records {
		out = append(out, storage.NewExportRecord(r))
	}
	return nil, map[string]interface{}{"records": out}, nil
}

// since narrows the table to rows on or after a YYYY-MM-DD date. Empty means all rows.
func (s *Server) since(date string) (*table.Table, error) {
	if date == "" {
		return s.table, nil
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid since date %q (use YYYY-MM-DD)", date)
	}
	return s.table.Since(d), nil
}
