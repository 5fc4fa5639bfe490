package categories

import (
	"sort"

	"invapp/infrastructure/apperr"
	"invapp/models"
)

// Node is one category emitted by BuildTree with its indentation depth.
type Node struct {
	Category models.Category
	Level    int
}

// arena links the flat category list into parent/child index chains in a
// single pass, so traversal never re-scans the whole slice per level.
type arena struct {
	cats     []models.Category
	children map[int64][]int
	index    map[int64]int
}

func buildArena(cats []models.Category) arena {
	a := arena{
		cats:     cats,
		children: make(map[int64][]int, len(cats)),
		index:    make(map[int64]int, len(cats)),
	}
	for i, c := range cats {
		a.index[c.ID] = i
	}
	for i, c := range cats {
		parent := int64(0)
		if c.ParentID != nil {
			if _, ok := a.index[*c.ParentID]; ok {
				parent = *c.ParentID
			}
		}
		a.children[parent] = append(a.children[parent], i)
	}
	// Siblings render in name order, matching the list queries.
	for _, idxs := range a.children {
		sort.SliceStable(idxs, func(x, y int) bool {
			return a.cats[idxs[x]].Name < a.cats[idxs[y]].Name
		})
	}
	return a
}

// BuildTree orders the flat category list into a depth-first pre-order
// traversal: each node appears immediately after its parent and before its
// siblings' subtrees. A parent chain that cycles back on itself fails with
// a conflict error instead of recursing forever.
func BuildTree(cats []models.Category) ([]Node, error) {
	a := buildArena(cats)
	out := make([]Node, 0, len(cats))
	visited := make(map[int64]bool, len(cats))

	var walk func(parent int64, level int) error
	walk = func(parent int64, level int) error {
		for _, idx := range a.children[parent] {
			c := a.cats[idx]
			if visited[c.ID] {
				return apperr.Conflict("category hierarchy contains a cycle at %q (id %d)", c.Name, c.ID)
			}
			visited[c.ID] = true
			out = append(out, Node{Category: c, Level: level})
			if err := walk(c.ID, level+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, 0); err != nil {
		return nil, err
	}

	// Nodes unreachable from any root mean their ancestor chain is a
	// closed loop with no entry point.
	if len(out) != len(cats) {
		for _, c := range cats {
			if !visited[c.ID] {
				return nil, apperr.Conflict("category hierarchy contains a cycle at %q (id %d)", c.Name, c.ID)
			}
		}
	}
	return out, nil
}

// DescendantIDs computes the transitive closure of rootID over parent_id,
// including rootID itself. Used to scope item filters to a subtree.
func DescendantIDs(cats []models.Category, rootID int64) map[int64]struct{} {
	a := buildArena(cats)
	out := map[int64]struct{}{rootID: {}}

	var walk func(id int64)
	walk = func(id int64) {
		for _, idx := range a.children[id] {
			child := a.cats[idx].ID
			if _, seen := out[child]; seen {
				continue
			}
			out[child] = struct{}{}
			walk(child)
		}
	}
	walk(rootID)
	return out
}
