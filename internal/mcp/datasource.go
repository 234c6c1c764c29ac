package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error)
	QueryRepMetrics(ctx context.Context, analysisID uuid.UUID) ([]models.RepMetric, error)
	GetANTSummary(ctx context.Context) (*storage.ANTSummary, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
