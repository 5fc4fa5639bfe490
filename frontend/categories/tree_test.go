package categories

import (
	"testing"

	"invapp/infrastructure/apperr"
	"invapp/models"
)

func ptr(v int64) *int64 { return &v }

func cat(id int64, parent *int64, name string) models.Category {
	return models.Category{ID: id, ParentID: parent, Name: name, IsActive: true}
}

func TestBuildTreePreOrder(t *testing.T) {
	flat := []models.Category{
		cat(1, nil, "Clinical"),
		cat(2, ptr(1), "Bandages"),
		cat(3, ptr(1), "Syringes"),
		cat(4, ptr(2), "Adhesive"),
	}

	nodes, err := BuildTree(flat)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	wantIDs := []int64{1, 2, 4, 3}
	wantLevels := []int{0, 1, 2, 1}
	if len(nodes) != len(wantIDs) {
		t.Fatalf("expected %d nodes, got %d", len(wantIDs), len(nodes))
	}
	for i, n := range nodes {
		if n.Category.ID != wantIDs[i] || n.Level != wantLevels[i] {
			t.Fatalf("position %d: expected id=%d level=%d, got id=%d level=%d",
				i, wantIDs[i], wantLevels[i], n.Category.ID, n.Level)
		}
	}
}

func TestBuildTreeMultipleRoots(t *testing.T) {
	flat := []models.Category{
		cat(2, nil, "Clerical"),
		cat(1, nil, "Clinical"),
		cat(3, ptr(2), "Paper"),
	}

	nodes, err := BuildTree(flat)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	wantIDs := []int64{2, 3, 1}
	for i, n := range nodes {
		if n.Category.ID != wantIDs[i] {
			t.Fatalf("position %d: expected id=%d, got id=%d", i, wantIDs[i], n.Category.ID)
		}
	}
}

func TestBuildTreeDetectsCycle(t *testing.T) {
	flat := []models.Category{
		cat(1, ptr(2), "A"),
		cat(2, ptr(1), "B"),
		cat(3, nil, "C"),
	}

	_, err := BuildTree(flat)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestBuildTreeSelfParentDetected(t *testing.T) {
	flat := []models.Category{cat(1, ptr(1), "Loop")}

	_, err := BuildTree(flat)
	if err == nil {
		t.Fatalf("expected cycle error for self-parent")
	}
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDescendantIDsIncludesRootAndSubtree(t *testing.T) {
	flat := []models.Category{
		cat(1, nil, "Clinical"),
		cat(2, ptr(1), "Bandages"),
		cat(3, ptr(1), "Syringes"),
		cat(4, ptr(2), "Adhesive"),
		cat(5, nil, "Clerical"),
	}

	ids := DescendantIDs(flat, 1)
	for _, want := range []int64{1, 2, 3, 4} {
		if _, ok := ids[want]; !ok {
			t.Fatalf("expected id %d in descendant set", want)
		}
	}
	if _, ok := ids[5]; ok {
		t.Fatalf("did not expect sibling root 5 in descendant set")
	}

	// The descendant set is a superset of BuildTree's emitted subtree.
	nodes, err := BuildTree(flat)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	inSubtree := false
	for _, n := range nodes {
		if n.Category.ID == 1 {
			inSubtree = true
			continue
		}
		if inSubtree && n.Level == 0 {
			inSubtree = false
		}
		if inSubtree {
			if _, ok := ids[n.Category.ID]; !ok {
				t.Fatalf("subtree node %d missing from descendant set", n.Category.ID)
			}
		}
	}
}
