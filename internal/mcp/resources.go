// ABOUTME: MCP resource implementations for the health dashboard.
// ABOUTME: Provides the summary and layout as health://dashboard resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "health://dashboard/summary"
	layoutURI  = "health://dashboard/layout"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Health Summary",
		Description: "Days logged, meal averages, glucose range, and days over the calorie limit",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         layoutURI,
		Name:        "Dashboard Layout",
		Description: "Dashboard heading, colour scheme, and tabs",
		MIMEType:    "application/json",
	}, s.handleLayoutResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(summaryURI, dashboard.Summarize(s.table))
}

func (s *Server) handleLayoutResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(layoutURI, s.layout)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
