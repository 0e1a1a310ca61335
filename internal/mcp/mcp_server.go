// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the cellplot MCP server without starting it.
// images may be nil, in which case rendered charts are only returned inline.
// This is exposed for unit testing.
func NewMCPServer(mgr contract.StoreManager, composer *chart.Composer, images contract.ByteSink) *server.MCPServer {
	s := server.NewMCPServer(
		"Cellplot Battery Data Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		mgr:      mgr,
		composer: composer,
		images:   images,
	}

	// --- 1. Tool: list_cells ---
	s.AddTool(mcp.NewTool("list_cells",
		mcp.WithDescription("List battery cells with their charge policy and cycle life."),
		mcp.WithString("search", mcp.Description("Only return cells whose ID contains this text.")),
	), h.handleListCells)

	// --- 2. Tool: get_cycle_summaries ---
	s.AddTool(mcp.NewTool("get_cycle_summaries",
		mcp.WithDescription("Get per-cycle metrics (IR, charge and discharge capacity, temperatures, charge time) of a cell."),
		mcp.WithString("cell_id", mcp.Description("The cell to read."), mcp.Required()),
	), h.handleGetCycleSummaries)

	// --- 3. Tool: get_cycle_timeseries ---
	s.AddTool(mcp.NewTool("get_cycle_timeseries",
		mcp.WithDescription("Get time, current, voltage, capacity and temperature readings of a cell with their units."),
		mcp.WithString("cell_id", mcp.Description("The cell to read."), mcp.Required()),
		mcp.WithString("cycle_index", mcp.Description("Restrict the readings to one cycle (e.g., '12').")),
	), h.handleGetCycleTimeseries)

	// --- 4. Tool: render_chart ---
	s.AddTool(mcp.NewTool("render_chart",
		mcp.WithDescription("Render a multi-series line chart. Series in different units are spread over a left and a right axis."),
		mcp.WithAny("request", mcp.Description(
			"Chart request object or JSON string: {data: {labels, datasets: [{label, data, unit?, borderColor?}]}, options: {scales: {x: {title: {text}}, y: {title: {text}}}, plugins: {title: {text}}}}."),
			mcp.Required()),
	), h.handleRenderChart)

	// --- 5. Tool: render_segment_chart ---
	s.AddTool(mcp.NewTool("render_segment_chart",
		mcp.WithDescription("Render internal resistance and discharge capacity of a cell over a range of cycles."),
		mcp.WithString("cell_id", mcp.Description("The cell to chart."), mcp.Required()),
		mcp.WithString("segment", mcp.Description("Cycle range written 'start-end' (e.g., '100-200')."), mcp.Required()),
	), h.handleRenderSegmentChart)

	return s
}

// StartMCPServer starts the cellplot MCP server on stdio.
func StartMCPServer(_ context.Context, mgr contract.StoreManager, composer *chart.Composer, images contract.ByteSink) error {
	s := NewMCPServer(mgr, composer, images)
	return server.ServeStdio(s)
}
