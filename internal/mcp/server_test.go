// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers handlers directly and a client session over in-memory transports.
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/storage"
	"github.com/harperreed/healthboard/internal/table"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const sampleCSV = "Date,Blood Glucose,Breakfast Calories,Lunch Calories,Dinner Calories,Desert Calories,Total Calories,Exercise (minutes),Heart Rate,Systolic,Diastolic\n" +
	"2024-01-01,110,300,500,700,100,1600,30,72,120,80\n" +
	"2024-01-02,105,400,600,500,0,1500,45,68,118,78\n" +
	"2024-01-03,98,200,400,600,200,,0,75,125,82\n"

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tbl, err := table.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	server, err := NewServer(tbl, dashboard.NewLayout("Veronica"), "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.table == nil {
		t.Error("Expected non-nil table")
	}
}

func TestHandleListCharts(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleListCharts(context.Background(), &mcp.CallToolRequest{}, listChartsInput{})
	if err != nil {
		t.Fatalf("handleListCharts failed: %v", err)
	}
	if len(out.Charts) != 4 {
		t.Fatalf("Expected 4 charts, got %d", len(out.Charts))
	}
	if out.Charts[3].ID != dashboard.DailyCalorieIntakeID {
		t.Errorf("Expected last chart %s, got %s", dashboard.DailyCalorieIntakeID, out.Charts[3].ID)
	}
	if out.Charts[0].Title != "Blood Glucose Trend Over Time" {
		t.Errorf("Unexpected title: %s", out.Charts[0].Title)
	}
}

func TestHandleGetFigure(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"glucose", dashboard.GlucoseTrendID, false},
		{"daily", dashboard.DailyCalorieIntakeID, false},
		{"unknown", "weight-trend", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleGetFigure(ctx, &mcp.CallToolRequest{}, getFigureInput{ID: tt.id})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			fig, ok := out.(dashboard.Figure)
			if !ok {
				t.Fatalf("Expected dashboard.Figure, got %T", out)
			}
			if fig.ID != tt.id {
				t.Errorf("Expected figure %s, got %s", tt.id, fig.ID)
			}
			if _, err := json.Marshal(fig); err != nil {
				t.Errorf("Figure should marshal despite missing cells: %v", err)
			}
		})
	}
}

func TestHandleMealAverages(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleMealAverages(ctx, &mcp.CallToolRequest{}, sinceInput{})
	if err != nil {
		t.Fatalf("handleMealAverages failed: %v", err)
	}
	result := out.(map[string]interface{})
	averages := result["averages"].([]dashboard.MealAverage)
	if len(averages) != 4 {
		t.Fatalf("Expected 4 averages, got %d", len(averages))
	}
	if averages[0].Average == nil || *averages[0].Average != 300 {
		t.Errorf("Expected breakfast average 300, got %v", averages[0].Average)
	}

	_, out, err = server.handleMealAverages(ctx, &mcp.CallToolRequest{}, sinceInput{Since: "2024-01-02"})
	if err != nil {
		t.Fatalf("handleMealAverages with since failed: %v", err)
	}
	if days := out.(map[string]interface{})["days"]; days != 2 {
		t.Errorf("Expected 2 days since Jan 2, got %v", days)
	}

	if _, _, err := server.handleMealAverages(ctx, &mcp.CallToolRequest{}, sinceInput{Since: "yesterday"}); err == nil {
		t.Error("Expected error for invalid since date")
	}
}

func TestHandleDailyTotals(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleDailyTotals(ctx, &mcp.CallToolRequest{}, dailyTotalsInput{})
	if err != nil {
		t.Fatalf("handleDailyTotals failed: %v", err)
	}
	days := out.(map[string]interface{})["days"].([]dailyTotal)
	if len(days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(days))
	}
	if !days[0].OverLimit {
		t.Error("Expected Jan 1 over the limit")
	}
	if days[1].OverLimit {
		t.Error("Expected Jan 2 (exactly 1500) not over the limit")
	}
	if days[2].TotalCalories != nil {
		t.Errorf("Expected missing total for Jan 3, got %v", *days[2].TotalCalories)
	}

	_, out, err = server.handleDailyTotals(ctx, &mcp.CallToolRequest{}, dailyTotalsInput{OverLimitOnly: true})
	if err != nil {
		t.Fatalf("handleDailyTotals failed: %v", err)
	}
	days = out.(map[string]interface{})["days"].([]dailyTotal)
	if len(days) != 1 || days[0].Date != "2024-01-01" {
		t.Errorf("Expected only 2024-01-01, got %+v", days)
	}
}

func TestHandleListRecords(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Limit: 2})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	records := out.(map[string]interface{})["records"].([]storage.ExportRecord)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Date.Day() != 3 {
		t.Errorf("Expected most recent records, got %v", records[1].Date)
	}

	_, out, err = server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Since: "2030-01-01"})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	if msg := out.(map[string]interface{})["message"]; msg != "No records found." {
		t.Errorf("Expected empty message, got %v", msg)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(result.Contents))
	}

	var summary dashboard.Summary
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.Days != 3 {
		t.Errorf("Expected 3 days, got %d", summary.Days)
	}
}

func TestHandleLayoutResource(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleLayoutResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "Veronica's Health Dashboard") {
		t.Errorf("Expected owner heading in layout, got %s", result.Contents[0].Text)
	}
}

func TestClientSession(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect failed: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect failed: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools.Tools) != 6 {
		t.Errorf("Expected 6 tools, got %d", len(tools.Tools))
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_figure",
		Arguments: map[string]any{"id": dashboard.DailyCalorieIntakeID},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("Tool returned error: %+v", res.Content)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "1500 kcal Limit") {
		t.Errorf("Expected reference line in figure, got %s", text)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_figure",
		Arguments: map[string]any{"id": "weight-trend"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !res.IsError {
		t.Error("Expected tool error for unknown chart")
	}

	rr, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: summaryURI})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.Contains(rr.Contents[0].Text, `"days": 3`) {
		t.Errorf("Unexpected summary: %s", rr.Contents[0].Text)
	}
}
