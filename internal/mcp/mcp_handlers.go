package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	mgr      contract.StoreManager
	composer *chart.Composer
	images   contract.ByteSink
}

// chartLayout is the text part of a chart result.
type chartLayout struct {
	MimeType     string            `json:"mime_type"`
	ImageURL     string            `json:"image_url,omitempty"`
	Axes         chart.Axes        `json:"axes"`
	LabelAxisMap map[string]string `json:"label_axis_map"`
}

func (h *toolHandler) records() (contract.RecordStore, error) {
	var rs contract.RecordStore
	if h.mgr != nil {
		rs = h.mgr.GetRecordStore()
	}
	if rs == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}
	return rs, nil
}

func (h *toolHandler) handleListCells(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rs, err := h.records()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cells, err := store.FetchCells(ctx, rs, request.GetString("search", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing cells failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(cells, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCycleSummaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cellID := request.GetString("cell_id", "")
	if cellID == "" {
		return mcp.NewToolResultError("cell_id is required"), nil
	}
	rs, err := h.records()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := store.FetchCycleSummaries(ctx, rs, cellID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading cycle summaries failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCycleTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cellID := request.GetString("cell_id", "")
	if cellID == "" {
		return mcp.NewToolResultError("cell_id is required"), nil
	}
	// Agents send numbers as often as strings
	var cycleIndex string
	if v, ok := request.GetArguments()["cycle_index"]; ok && v != nil {
		cycleIndex = fmt.Sprint(v)
	}

	rs, err := h.records()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := store.FetchTimeseries(ctx, rs, cellID, cycleIndex)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading timeseries failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRenderChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var payload []byte
	switch v := request.GetArguments()["request"].(type) {
	case nil:
		return mcp.NewToolResultError("request is required"), nil
	case string:
		payload = []byte(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid chart request: %v", err)), nil
		}
		payload = data
	}

	req, err := chart.ParseRequest(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := h.composer.Render(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering chart failed: %v", err)), nil
	}
	return h.chartResult(res)
}

func (h *toolHandler) handleRenderSegmentChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cellID := request.GetString("cell_id", "")
	segment := request.GetString("segment", "")
	if cellID == "" || segment == "" {
		return mcp.NewToolResultError("cell_id and segment are required"), nil
	}
	rs, err := h.records()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := chart.SegmentChart(ctx, rs, h.composer, cellID, segment)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering segment chart failed: %v", err)), nil
	}
	return h.chartResult(res)
}

// chartResult returns the image inline together with its layout, storing it first when a
// sink is configured.
func (h *toolHandler) chartResult(res *chart.Result) (*mcp.CallToolResult, error) {
	layout := chartLayout{
		MimeType:     res.MimeType,
		Axes:         res.Axes,
		LabelAxisMap: make(map[string]string, len(res.LabelAxisMap)),
	}
	for label, side := range res.LabelAxisMap {
		layout.LabelAxisMap[label] = string(side)
	}
	if h.images != nil {
		url, err := h.images.Store(res.Image, "chart.png")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("storing chart failed: %v", err)), nil
		}
		layout.ImageURL = url
	}

	jsonData, _ := json.MarshalIndent(layout, "", "  ")
	return mcp.NewToolResultImage(string(jsonData), base64.StdEncoding.EncodeToString(res.Image), res.MimeType), nil
}
