package mcp

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/storage"
)

// fakeDataSource serves canned rows so tool handlers can be exercised without
// a database.
type fakeDataSource struct {
	rows    []models.AnalysisRow
	summary *storage.ANTSummary
	err     error
}

func (f *fakeDataSource) QueryAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func (f *fakeDataSource) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDataSource) QueryRepMetrics(ctx context.Context, analysisID uuid.UUID) ([]models.RepMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.RepMetric{{RepIndex: 0, PeakSpeed: 2.0, IsValid: true}}, nil
}

func (f *fakeDataSource) GetANTSummary(ctx context.Context) (*storage.ANTSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestNewRegistersServer verifies server construction with a data source.
func TestNewRegistersServer(t *testing.T) {
	s := New(&fakeDataSource{}, "test", slog.Default())
	if s == nil {
		t.Fatal("New returned nil")
	}
}

// TestListAnalysesTool verifies the handler honors the limit argument and
// returns a non-error result.
func TestListAnalysesTool(t *testing.T) {
	ds := &fakeDataSource{rows: []models.AnalysisRow{
		{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()},
	}}
	h := &handlers{ds: ds, log: slog.Default()}

	result, err := h.listAnalyses(context.Background(), toolRequest(map[string]any{"limit": 2.0}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("tool errored: %+v", result)
	}
}

// TestGetAnalysisTool verifies UUID parsing and lookup.
func TestGetAnalysisTool(t *testing.T) {
	id := uuid.New()
	ds := &fakeDataSource{rows: []models.AnalysisRow{{ID: id}}}
	h := &handlers{ds: ds, log: slog.Default()}

	result, err := h.getAnalysis(context.Background(), toolRequest(map[string]any{"id": id.String()}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("tool errored: %+v", result)
	}

	result, err = h.getAnalysis(context.Background(), toolRequest(map[string]any{"id": "not-a-uuid"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error result for malformed UUID")
	}

	result, err = h.getAnalysis(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error result for missing id")
	}
}

// TestGetANTSummaryTool verifies the summary handler and the error path.
func TestGetANTSummaryTool(t *testing.T) {
	h := &handlers{
		ds:  &fakeDataSource{summary: &storage.ANTSummary{TotalAnalyses: 7}},
		log: slog.Default(),
	}
	result, err := h.getANTSummary(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("tool errored: %+v", result)
	}

	h.ds = &fakeDataSource{err: errors.New("db down")}
	result, err = h.getANTSummary(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error result when the data source fails")
	}
}

// TestRequireUUID verifies the argument parser.
func TestRequireUUID(t *testing.T) {
	id := uuid.New()
	if got, ok := requireUUID(toolRequest(map[string]any{"id": id.String()})); !ok || got != id {
		t.Errorf("requireUUID = %v, %v, want %v, true", got, ok, id)
	}
	if _, ok := requireUUID(toolRequest(map[string]any{"id": "garbage"})); ok {
		t.Error("garbage id accepted")
	}
	if _, ok := requireUUID(toolRequest(nil)); ok {
		t.Error("missing id accepted")
	}
}

// TestRecentAnalysesResource verifies the resource handler emits JSON.
func TestRecentAnalysesResource(t *testing.T) {
	ds := &fakeDataSource{rows: []models.AnalysisRow{{ID: uuid.New()}}}
	h := &handlers{ds: ds, log: slog.Default()}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "swingsense://recent_analyses"

	contents, err := h.recentAnalyses(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T, want TextResourceContents", contents[0])
	}
	if text.MIMEType != "application/json" {
		t.Errorf("mime type = %q, want application/json", text.MIMEType)
	}
}
