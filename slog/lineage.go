// Package slog provides logging decorators for the doctrail services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/doctrail/doctrail"
)

// Ensure LoggingLineageService implements doctrail.LineageService.
var _ doctrail.LineageService = (*LoggingLineageService)(nil)

// LoggingLineageService wraps a LineageService with logging. Relationship
// outcomes are logged so silently skipped edges stay observable.
type LoggingLineageService struct {
	next   doctrail.LineageService
	logger *slog.Logger
}

// NewLoggingLineageService creates a new LoggingLineageService.
func NewLoggingLineageService(next doctrail.LineageService, logger *slog.Logger) *LoggingLineageService {
	return &LoggingLineageService{next: next, logger: logger}
}

// CreateNode delegates to the wrapped service and logs the operation.
func (s *LoggingLineageService) CreateNode(ctx context.Context, node *doctrail.DocumentNode) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create node",
			"id", node.ID,
			"name", node.Name,
			"site", node.SiteName,
			"kind", string(node.Kind),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateNode(ctx, node)
}

// UpdateNode delegates to the wrapped service and logs the operation.
func (s *LoggingLineageService) UpdateNode(ctx context.Context, node *doctrail.DocumentNode) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("update node",
			"id", node.ID,
			"storage_path", node.StoragePath,
			"parsing_storage_path", node.ParsingStoragePath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateNode(ctx, node)
}

// CreateRelationship delegates to the wrapped service and logs the
// outcome. Skipped edges are logged at warning level.
func (s *LoggingLineageService) CreateRelationship(ctx context.Context, rel *doctrail.DocumentRelationship) (outcome doctrail.RelationshipOutcome, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if outcome == doctrail.RelationshipSkippedMissingEndpoint && err == nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "create relationship",
			"start", rel.StartDocumentID,
			"end", rel.EndDocumentID,
			"outcome", outcome.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRelationship(ctx, rel)
}

// FindNodeByID delegates to the wrapped service.
func (s *LoggingLineageService) FindNodeByID(ctx context.Context, id string) (*doctrail.DocumentNode, error) {
	return s.next.FindNodeByID(ctx, id)
}

// FindLeavesBySite delegates to the wrapped service and logs the result
// size.
func (s *LoggingLineageService) FindLeavesBySite(ctx context.Context, siteName string) (nodes []*doctrail.DocumentNode, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find leaves",
			"site", siteName,
			"count", len(nodes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindLeavesBySite(ctx, siteName)
}

// FindLeafPredecessors delegates to the wrapped service.
func (s *LoggingLineageService) FindLeafPredecessors(ctx context.Context, leafID string) ([]*doctrail.DocumentNode, error) {
	return s.next.FindLeafPredecessors(ctx, leafID)
}

// LeafPath delegates to the wrapped service.
func (s *LoggingLineageService) LeafPath(ctx context.Context, leafID string) (string, error) {
	return s.next.LeafPath(ctx, leafID)
}
