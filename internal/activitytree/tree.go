// Package activitytree implements the activity tree builder (component
// C7): an arena of nodes addressed by integer index rather than a
// pointer-cyclic parent/child structure (spec section 9's rearchitecture
// note on parent/child cyclic links).
package activitytree

import (
	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

// Node is one activity in the tree. Parent is -1 for the root. Children
// holds indices into the owning Tree's Nodes slice, in document order.
type Node struct {
	ID              string
	ItemRef         string // item identifier
	ResourceRef     string // "" for container items
	Parent          int
	Children        []int
	EffectiveSequencing *manifest.Sequencing
}

// Tree is the arena: Nodes[0] is always the root, a synthetic node for the
// default (or else the first) organization, with that organization's
// top-level items as its children.
type Tree struct {
	Nodes []Node
}

// Build constructs a Tree from a SCORM manifest's organizations, per spec
// 4.7. For SCORM 1.2, sequencing is never present (seqCollection is nil
// and items carry no Sequencing/SequencingIDRef), so effective sequencing
// resolution degrades to "always empty" automatically.
func Build(orgs []manifest.Organization, defaultOrgID string, seqCollection []manifest.Sequencing) (*Tree, error) {
	org := pickDefaultOrganization(orgs, defaultOrgID)
	t := &Tree{}
	if org == nil {
		return t, nil
	}

	root := Node{ID: org.Identifier, Parent: -1}
	rootIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, root)

	seen := map[string]struct{}{org.Identifier: {}}
	if err := t.addItems(rootIdx, org.Items, seen, nil, seqCollection); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) addItems(parentIdx int, items []manifest.Item, pathSeen map[string]struct{}, inherited *manifest.Sequencing, seqCollection []manifest.Sequencing) error {
	for _, item := range items {
		if item.Identifier != "" {
			if _, dup := pathSeen[item.Identifier]; dup {
				return lcierrors.NewDuplicateIdentifierError(item.Identifier, nil)
			}
			pathSeen[item.Identifier] = struct{}{}
		}

		effective := resolveEffectiveSequencing(item, inherited, seqCollection)

		node := Node{
			ID:                  item.Identifier,
			ItemRef:              item.Identifier,
			ResourceRef:          item.Identifierref,
			Parent:               parentIdx,
			EffectiveSequencing:  effective,
		}
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, node)
		t.Nodes[parentIdx].Children = append(t.Nodes[parentIdx].Children, idx)

		if len(item.Items) > 0 {
			childSeen := make(map[string]struct{}, len(pathSeen))
			for k := range pathSeen {
				childSeen[k] = struct{}{}
			}
			if err := t.addItems(idx, item.Items, childSeen, effective, seqCollection); err != nil {
				return err
			}
		}
		if item.Identifier != "" {
			delete(pathSeen, item.Identifier)
		}
	}
	return nil
}

// resolveEffectiveSequencing implements spec 4.7's resolution order:
// inline sequencing; else IDRef resolved via sequencingCollection; else
// inherited from the nearest ancestor; else empty.
func resolveEffectiveSequencing(item manifest.Item, inherited *manifest.Sequencing, seqCollection []manifest.Sequencing) *manifest.Sequencing {
	if item.Sequencing != nil {
		return item.Sequencing
	}
	if item.SequencingIDRef != "" {
		for i := range seqCollection {
			if seqCollection[i].ID == item.SequencingIDRef {
				return &seqCollection[i]
			}
		}
	}
	return inherited
}

func pickDefaultOrganization(orgs []manifest.Organization, defaultOrgID string) *manifest.Organization {
	if len(orgs) == 0 {
		return nil
	}
	for i := range orgs {
		if orgs[i].Identifier == defaultOrgID {
			return &orgs[i]
		}
	}
	return &orgs[0]
}

// Count returns the number of item nodes (excluding the synthetic root).
func (t *Tree) Count() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	return len(t.Nodes) - 1
}
