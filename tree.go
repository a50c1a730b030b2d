package doctrail

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TreeNode pairs a DocumentNode payload with its parent linkage inside a
// DocumentTree.
type TreeNode struct {
	Node     *DocumentNode
	Parent   *TreeNode
	Children []*TreeNode
}

// DocumentTree is a transient, in-memory rooted tree mirroring the URL
// hierarchy of one site. It exists only during the scrape phase to compute
// nodes and edges before persistence and is discarded after.
type DocumentTree struct {
	SiteName string
	Root     *TreeNode
}

// BuildTree derives a lineage tree from a flat list of absolute URLs
// belonging to one site. URLs need not be unique or sorted.
//
// Each URL's path is split into non-empty segments and walked from the
// root, creating one node per path prefix not yet seen. A node records the
// URL that created it; later URLs resolving to the same prefix do not
// revisit it (first-wins). Node kinds are fixed after the full pass: nodes
// with no children become leaves, all others interior, the root stays root.
func BuildTree(siteName string, urls []string) (*DocumentTree, error) {
	if siteName == "" {
		return nil, Errorf(EINVALID, "site name required")
	}

	root := &TreeNode{
		Node: &DocumentNode{
			ID:       uuid.New().String(),
			Name:     RootNodeName,
			SiteName: siteName,
			Kind:     KindRoot,
		},
	}
	tree := &DocumentTree{SiteName: siteName, Root: root}

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
		}

		cur := root
		for _, segment := range splitPathSegments(u.Path) {
			child := cur.childByName(segment)
			if child == nil {
				child = &TreeNode{
					Node: &DocumentNode{
						ID:       uuid.New().String(),
						Name:     segment,
						URL:      raw,
						SiteName: siteName,
					},
					Parent: cur,
				}
				cur.Children = append(cur.Children, child)
			}
			cur = child
		}
	}

	assignKinds(root)
	return tree, nil
}

// Walk visits every node pre-order (root first, then each subtree in
// insertion order). Walking stops at the first error, which is returned.
func (t *DocumentTree) Walk(fn func(n *TreeNode) error) error {
	return walk(t.Root, fn)
}

func walk(n *TreeNode, fn func(n *TreeNode) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

func (n *TreeNode) childByName(name string) *TreeNode {
	for _, child := range n.Children {
		if child.Node.Name == name {
			return child
		}
	}
	return nil
}

func assignKinds(n *TreeNode) {
	if n.Parent != nil {
		if len(n.Children) == 0 {
			n.Node.Kind = KindLeaf
		} else {
			n.Node.Kind = KindInterior
		}
	}
	for _, child := range n.Children {
		assignKinds(child)
	}
}

// splitPathSegments returns the non-empty segments of a URL path.
func splitPathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
