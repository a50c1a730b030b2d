package doctrail

import "context"

// NodeKind classifies a lineage node. The kind is decided once from the
// shape of the tree at build time and never changes afterward.
type NodeKind string

// Node kinds. The root is the synthetic top node of a site's tree and is
// never itself scraped; leaves correspond to scraped pages.
const (
	KindRoot     NodeKind = "root"
	KindInterior NodeKind = "interior"
	KindLeaf     NodeKind = "leaf"
)

// RootNodeName is the name assigned to the synthetic root of a site's tree.
const RootNodeName = "root"

// DocumentNode represents a node in the document lineage graph.
// Nodes are created once during scraping and mutated exactly twice
// afterward: the scraper sets StoragePath, the parser sets
// ParsingStoragePath. Nodes are never deleted in normal operation.
type DocumentNode struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	URL                string   `json:"url"`
	SiteName           string   `json:"siteName"`
	StoragePath        string   `json:"storagePath"`
	ParsingStoragePath string   `json:"parsingStoragePath"`
	Kind               NodeKind `json:"kind"`
}

// Validate returns an error if the node contains invalid fields.
func (n *DocumentNode) Validate() error {
	if n.Name == "" {
		return Errorf(EINVALID, "node name required")
	}
	if n.SiteName == "" {
		return Errorf(EINVALID, "node site name required")
	}
	switch n.Kind {
	case KindRoot, KindInterior, KindLeaf:
	default:
		return Errorf(EINVALID, "invalid node kind %q", n.Kind)
	}
	return nil
}

// DocumentRelationship is a directed parent→child edge between two lineage
// nodes. Relationships are write-once; creating the same edge twice has no
// additional effect.
type DocumentRelationship struct {
	ID              string `json:"id"`
	StartDocumentID string `json:"startDocumentId"`
	EndDocumentID   string `json:"endDocumentId"`
}

// Validate returns an error if the relationship contains invalid fields.
func (r *DocumentRelationship) Validate() error {
	if r.StartDocumentID == "" {
		return Errorf(EINVALID, "relationship start document ID required")
	}
	if r.EndDocumentID == "" {
		return Errorf(EINVALID, "relationship end document ID required")
	}
	return nil
}

// RelationshipOutcome reports what CreateRelationship actually did. Edge
// creation is deliberately soft on missing endpoints so crawl-order issues
// cannot corrupt a run, but the outcome is explicit so callers can observe
// (and log, and test) dropped edges instead of having them swallowed.
type RelationshipOutcome int

// CreateRelationship outcomes.
const (
	// RelationshipCreated means the edge exists after the call, whether it
	// was inserted now or already present (idempotent upsert).
	RelationshipCreated RelationshipOutcome = iota

	// RelationshipSkippedMissingEndpoint means at least one endpoint node
	// does not exist and the edge was dropped without error.
	RelationshipSkippedMissingEndpoint
)

// String returns a human-readable label for the outcome.
func (o RelationshipOutcome) String() string {
	switch o {
	case RelationshipCreated:
		return "created"
	case RelationshipSkippedMissingEndpoint:
		return "skipped_missing_endpoint"
	default:
		return "unknown"
	}
}

// LineageService persists the document lineage graph and answers
// ancestry queries against it.
type LineageService interface {
	// CreateNode inserts one node. The node's kind is fixed at creation.
	// Returns EPERSISTENCE if the store rejects the write, including when
	// the id already exists (a duplicate id is a caller bug).
	CreateNode(ctx context.Context, node *DocumentNode) error

	// UpdateNode overwrites the mutable fields (name, site name, URL,
	// storage path, parsing storage path) of the node with the given id.
	// Returns ENOTFOUND if no node matches the id.
	UpdateNode(ctx context.Context, node *DocumentNode) error

	// CreateRelationship upserts a parent→child edge. The edge is only
	// written when both endpoint nodes exist; otherwise it is dropped and
	// the outcome reports the skip. Creating the same edge twice leaves
	// exactly one edge.
	CreateRelationship(ctx context.Context, rel *DocumentRelationship) (RelationshipOutcome, error)

	// FindNodeByID retrieves a node by id.
	// Returns ENOTFOUND if the node does not exist.
	FindNodeByID(ctx context.Context, id string) (*DocumentNode, error)

	// FindLeavesBySite retrieves all leaf nodes for the given site.
	FindLeavesBySite(ctx context.Context, siteName string) ([]*DocumentNode, error)

	// FindLeafPredecessors retrieves the ancestor chain of a leaf,
	// including the leaf itself and excluding the root, ordered
	// leaf-to-root. Returns ENOTFOUND if the leaf does not exist.
	FindLeafPredecessors(ctx context.Context, leafID string) ([]*DocumentNode, error)

	// LeafPath joins the names of the leaf's predecessors in root-to-leaf
	// order with "/", reconstructing the original URL's directory
	// structure as a relative path without extension.
	LeafPath(ctx context.Context, leafID string) (string, error)
}
