package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListAnalyses = mcp.NewTool("list_analyses",
	mcp.WithDescription("List recent video analyses, newest first. Each entry includes movement type, valid rep count, baseline speed, and whether the anaerobic threshold was reached."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of analyses to return. Defaults to 20.")),
)

var toolGetAnalysis = mcp.NewTool("get_analysis",
	mcp.WithDescription("Get one analysis by ID, including the full result: per-rep metrics, smoothed speed data, and ANT detection details."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Analysis UUID")),
)

var toolGetRepMetrics = mcp.NewTool("get_rep_metrics",
	mcp.WithDescription("Get the rep-by-rep metrics of one analysis: start/end times, duration, peak speed, and below-threshold flags."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Analysis UUID")),
)

var toolGetANTSummary = mcp.NewTool("get_ant_summary",
	mcp.WithDescription("Aggregate statistics over all stored analyses: how often the ANT was reached, average baseline speed, and average drop depth."),
)

// --- Tool handlers ---

func (h *handlers) listAnalyses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", 20))

	rows, err := h.ds.QueryAnalyses(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_analyses", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireUUID(req)
	if !ok {
		return mcp.NewToolResultError("id must be a valid UUID"), nil
	}

	row, err := h.ds.GetAnalysis(ctx, id)
	if err != nil {
		h.log.Error("mcp get_analysis", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRepMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireUUID(req)
	if !ok {
		return mcp.NewToolResultError("id must be a valid UUID"), nil
	}

	metrics, err := h.ds.QueryRepMetrics(ctx, id)
	if err != nil {
		h.log.Error("mcp get_rep_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(metrics)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getANTSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.GetANTSummary(ctx)
	if err != nil {
		h.log.Error("mcp get_ant_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// requireUUID parses the required "id" argument.
func requireUUID(req mcp.CallToolRequest) (uuid.UUID, bool) {
	raw, err := req.RequireString("id")
	if err != nil {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// --- Resource handlers ---

func (h *handlers) recentAnalyses(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rows, err := h.ds.QueryAnalyses(ctx, 20)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
