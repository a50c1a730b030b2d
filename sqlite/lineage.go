package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doctrail/doctrail"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ doctrail.LineageService = (*LineageService)(nil)

// LineageService implements doctrail.LineageService using SQLite.
type LineageService struct {
	db *DB
}

// NewLineageService creates a new LineageService.
func NewLineageService(db *DB) *LineageService {
	return &LineageService{db: db}
}

// CreateNode inserts one node. The node's id is generated if unset; the
// kind is fixed at creation and never updated afterward.
func (s *LineageService) CreateNode(ctx context.Context, node *doctrail.DocumentNode) error {
	if err := node.Validate(); err != nil {
		return err
	}

	if node.ID == "" {
		node.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_nodes (id, name, url, site_name, storage_path, parsing_storage_path, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, node.ID, node.Name, node.URL, node.SiteName, node.StoragePath, node.ParsingStoragePath, string(node.Kind))

	if err != nil {
		// A duplicate id is a caller bug, not a recoverable condition;
		// it surfaces as a rejected write like any other store failure.
		return doctrail.Errorf(doctrail.EPERSISTENCE, "create node %q: %v", node.ID, err)
	}

	return nil
}

// UpdateNode overwrites the mutable fields of the node with the given id.
func (s *LineageService) UpdateNode(ctx context.Context, node *doctrail.DocumentNode) error {
	if node.ID == "" {
		return doctrail.Errorf(doctrail.EINVALID, "node ID required")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE document_nodes
		SET name = ?, url = ?, site_name = ?, storage_path = ?, parsing_storage_path = ?
		WHERE id = ?
	`, node.Name, node.URL, node.SiteName, node.StoragePath, node.ParsingStoragePath, node.ID)
	if err != nil {
		return doctrail.Errorf(doctrail.EPERSISTENCE, "update node %q: %v", node.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return doctrail.Errorf(doctrail.ENOTFOUND, "node %q not found", node.ID)
	}

	return nil
}

// CreateRelationship upserts a parent→child edge, guarded on both
// endpoints existing. The guard makes edge creation safe against crawl
// ordering mistakes; the returned outcome makes the skip observable.
func (s *LineageService) CreateRelationship(ctx context.Context, rel *doctrail.DocumentRelationship) (doctrail.RelationshipOutcome, error) {
	if err := rel.Validate(); err != nil {
		return doctrail.RelationshipSkippedMissingEndpoint, err
	}

	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_relationships (id, start_document_id, end_document_id)
		SELECT ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM document_nodes WHERE id = ?)
		  AND EXISTS (SELECT 1 FROM document_nodes WHERE id = ?)
	`, rel.ID, rel.StartDocumentID, rel.EndDocumentID, rel.StartDocumentID, rel.EndDocumentID)
	if err != nil {
		return doctrail.RelationshipSkippedMissingEndpoint,
			doctrail.Errorf(doctrail.EPERSISTENCE, "create relationship: %v", err)
	}

	// RowsAffected can't distinguish "already present" from "endpoint
	// missing", so check the endpoints to classify the outcome.
	var endpoints int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM document_nodes WHERE id IN (?, ?)
	`, rel.StartDocumentID, rel.EndDocumentID).Scan(&endpoints)
	if err != nil {
		return doctrail.RelationshipSkippedMissingEndpoint, err
	}

	if endpoints < 2 && rel.StartDocumentID != rel.EndDocumentID {
		return doctrail.RelationshipSkippedMissingEndpoint, nil
	}
	return doctrail.RelationshipCreated, nil
}

// FindNodeByID retrieves a node by id.
func (s *LineageService) FindNodeByID(ctx context.Context, id string) (*doctrail.DocumentNode, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, url, site_name, storage_path, parsing_storage_path, kind
		FROM document_nodes
		WHERE id = ?
	`, id)

	node, err := scanNode(row.Scan)
	if err == sql.ErrNoRows {
		return nil, doctrail.Errorf(doctrail.ENOTFOUND, "node %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// FindLeavesBySite retrieves all leaf nodes for the given site.
func (s *LineageService) FindLeavesBySite(ctx context.Context, siteName string) ([]*doctrail.DocumentNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, url, site_name, storage_path, parsing_storage_path, kind
		FROM document_nodes
		WHERE site_name = ? AND kind = ?
		ORDER BY name ASC
	`, siteName, string(doctrail.KindLeaf))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*doctrail.DocumentNode
	for rows.Next() {
		node, err := scanNode(rows.Scan)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// FindLeafPredecessors retrieves the ancestor chain of a leaf, including
// the leaf and excluding the root, ordered leaf-to-root. The traversal
// follows relationship edges backward transitively.
func (s *LineageService) FindLeafPredecessors(ctx context.Context, leafID string) ([]*doctrail.DocumentNode, error) {
	if _, err := s.FindNodeByID(ctx, leafID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE ancestors(id, depth) AS (
			SELECT ?, 0
			UNION ALL
			SELECT r.start_document_id, a.depth + 1
			FROM document_relationships r
			JOIN ancestors a ON r.end_document_id = a.id
		)
		SELECT n.id, n.name, n.url, n.site_name, n.storage_path, n.parsing_storage_path, n.kind
		FROM ancestors a
		JOIN document_nodes n ON n.id = a.id
		WHERE n.kind != ?
		ORDER BY a.depth ASC
	`, leafID, string(doctrail.KindRoot))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*doctrail.DocumentNode
	for rows.Next() {
		node, err := scanNode(rows.Scan)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// LeafPath reconstructs the leaf's relative filesystem path by joining
// predecessor names in root-to-leaf order.
func (s *LineageService) LeafPath(ctx context.Context, leafID string) (string, error) {
	predecessors, err := s.FindLeafPredecessors(ctx, leafID)
	if err != nil {
		return "", err
	}

	// Predecessors come back leaf-to-root; reverse into path order.
	names := make([]string, len(predecessors))
	for i, node := range predecessors {
		names[len(predecessors)-1-i] = node.Name
	}
	return strings.Join(names, "/"), nil
}

// scanNode reads one node row using the given scan function.
func scanNode(scan func(dest ...any) error) (*doctrail.DocumentNode, error) {
	var node doctrail.DocumentNode
	var kind string
	if err := scan(&node.ID, &node.Name, &node.URL, &node.SiteName,
		&node.StoragePath, &node.ParsingStoragePath, &kind); err != nil {
		return nil, err
	}
	node.Kind = doctrail.NodeKind(kind)
	return &node, nil
}
