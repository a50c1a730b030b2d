// Package mock provides function-field mocks of the doctrail service
// interfaces for use in tests.
package mock

import (
	"context"

	"github.com/doctrail/doctrail"
)

var _ doctrail.LineageService = (*LineageService)(nil)

// LineageService is a mock implementation of doctrail.LineageService.
type LineageService struct {
	CreateNodeFn           func(ctx context.Context, node *doctrail.DocumentNode) error
	UpdateNodeFn           func(ctx context.Context, node *doctrail.DocumentNode) error
	CreateRelationshipFn   func(ctx context.Context, rel *doctrail.DocumentRelationship) (doctrail.RelationshipOutcome, error)
	FindNodeByIDFn         func(ctx context.Context, id string) (*doctrail.DocumentNode, error)
	FindLeavesBySiteFn     func(ctx context.Context, siteName string) ([]*doctrail.DocumentNode, error)
	FindLeafPredecessorsFn func(ctx context.Context, leafID string) ([]*doctrail.DocumentNode, error)
	LeafPathFn             func(ctx context.Context, leafID string) (string, error)
}

func (s *LineageService) CreateNode(ctx context.Context, node *doctrail.DocumentNode) error {
	return s.CreateNodeFn(ctx, node)
}

func (s *LineageService) UpdateNode(ctx context.Context, node *doctrail.DocumentNode) error {
	return s.UpdateNodeFn(ctx, node)
}

func (s *LineageService) CreateRelationship(ctx context.Context, rel *doctrail.DocumentRelationship) (doctrail.RelationshipOutcome, error) {
	return s.CreateRelationshipFn(ctx, rel)
}

func (s *LineageService) FindNodeByID(ctx context.Context, id string) (*doctrail.DocumentNode, error) {
	return s.FindNodeByIDFn(ctx, id)
}

func (s *LineageService) FindLeavesBySite(ctx context.Context, siteName string) ([]*doctrail.DocumentNode, error) {
	return s.FindLeavesBySiteFn(ctx, siteName)
}

func (s *LineageService) FindLeafPredecessors(ctx context.Context, leafID string) ([]*doctrail.DocumentNode, error) {
	return s.FindLeafPredecessorsFn(ctx, leafID)
}

func (s *LineageService) LeafPath(ctx context.Context, leafID string) (string, error) {
	return s.LeafPathFn(ctx, leafID)
}
