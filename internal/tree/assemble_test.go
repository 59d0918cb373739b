package tree

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"rigworks/internal/models"
)

// node is a test helper constructing a category with the structural
// fields the assembler cares about.
func node(id uuid.UUID, parent *uuid.UUID, name string, sortOrder int) models.Category {
	return models.Category{ID: id, ParentID: parent, Name: name, SortOrder: sortOrder}
}

func TestAssemble(t *testing.T) {
	rootA := uuid.New()
	rootB := uuid.New()
	childA1 := uuid.New()
	childA2 := uuid.New()
	grandA1a := uuid.New()

	flat := []models.Category{
		node(childA2, &rootA, "GPUs", 1),
		node(rootB, nil, "Peripherals", 1),
		node(grandA1a, &childA1, "AMD CPUs", 0),
		node(rootA, nil, "Components", 0),
		node(childA1, &rootA, "CPUs", 0),
	}

	roots, orphans := Assemble(flat)

	if len(orphans) != 0 {
		t.Fatalf("unexpected orphans: %v", orphans)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].ID != rootA || roots[1].ID != rootB {
		t.Errorf("roots out of order: %s, %s", roots[0].Name, roots[1].Name)
	}

	kids := roots[0].Children
	if len(kids) != 2 || kids[0].ID != childA1 || kids[1].ID != childA2 {
		t.Fatalf("children of Components wrong: %+v", kids)
	}
	if len(kids[0].Children) != 1 || kids[0].Children[0].ID != grandA1a {
		t.Errorf("grandchild not attached: %+v", kids[0].Children)
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("Peripherals should have no children")
	}
}

func TestAssembleExcludesOrphans(t *testing.T) {
	missing := uuid.New()
	orphanID := uuid.New()
	rootID := uuid.New()

	flat := []models.Category{
		node(rootID, nil, "Components", 0),
		node(orphanID, &missing, "Lost", 0),
	}

	roots, orphans := Assemble(flat)

	if len(roots) != 1 || roots[0].ID != rootID {
		t.Fatalf("roots = %+v, want single Components root", roots)
	}
	if len(orphans) != 1 || orphans[0].ID != orphanID {
		t.Fatalf("orphans = %+v, want the Lost node", orphans)
	}
}

func TestAssembleOrphanKeepsDescendants(t *testing.T) {
	missing := uuid.New()
	orphanID := uuid.New()
	childID := uuid.New()
	grandID := uuid.New()
	rootID := uuid.New()

	flat := []models.Category{
		node(rootID, nil, "Components", 0),
		node(orphanID, &missing, "Lost", 0),
		node(childID, &orphanID, "Lost Child", 0),
		node(grandID, &childID, "Lost Grandchild", 0),
	}

	roots, orphans := Assemble(flat)

	if len(roots) != 1 || roots[0].ID != rootID {
		t.Fatalf("roots = %+v, want single Components root", roots)
	}
	if len(orphans) != 1 || orphans[0].ID != orphanID {
		t.Fatalf("orphans = %+v, want the Lost node", orphans)
	}
	kids := orphans[0].Children
	if len(kids) != 1 || kids[0].ID != childID {
		t.Fatalf("orphan children = %+v, want Lost Child attached", kids)
	}
	if len(kids[0].Children) != 1 || kids[0].Children[0].ID != grandID {
		t.Errorf("orphan grandchild not attached: %+v", kids[0].Children)
	}

	// Every input node shows up exactly once across the two returns.
	seen := make(map[uuid.UUID]int)
	var count func(nodes []models.Category)
	count = func(nodes []models.Category) {
		for _, n := range nodes {
			seen[n.ID]++
			count(n.Children)
		}
	}
	count(roots)
	count(orphans)
	for _, n := range flat {
		if seen[n.ID] != 1 {
			t.Errorf("node %s appears %d times, want 1", n.Name, seen[n.ID])
		}
	}
}

func TestAssembleDuplicateSortOrderFallsBackToID(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lo, hi := a, b
	if b.String() < a.String() {
		lo, hi = b, a
	}

	flat := []models.Category{
		node(hi, nil, "second", 3),
		node(lo, nil, "first", 3),
	}

	roots, _ := Assemble(flat)
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].ID != lo || roots[1].ID != hi {
		t.Errorf("duplicate sort orders not tie-broken by id")
	}
}

func TestAssembleIdempotent(t *testing.T) {
	rootID := uuid.New()
	childID := uuid.New()
	flat := []models.Category{
		node(rootID, nil, "Components", 0),
		node(childID, &rootID, "CPUs", 0),
	}

	first, _ := Assemble(flat)
	second, _ := Assemble(flat)

	if !reflect.DeepEqual(first, second) {
		t.Error("two assemblies of the same input differ")
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	roots, orphans := Assemble(nil)
	if len(roots) != 0 || len(orphans) != 0 {
		t.Errorf("Assemble(nil) = (%v, %v), want empty", roots, orphans)
	}
}

func TestFlatten(t *testing.T) {
	rootID := uuid.New()
	c1, c2, g1 := uuid.New(), uuid.New(), uuid.New()

	flat := []models.Category{
		node(rootID, nil, "Components", 0),
		node(c1, &rootID, "CPUs", 0),
		node(c2, &rootID, "GPUs", 1),
		node(g1, &c1, "AMD", 0),
	}
	roots, _ := Assemble(flat)
	out := Flatten(roots)

	wantOrder := []uuid.UUID{rootID, c1, g1, c2}
	if len(out) != len(wantOrder) {
		t.Fatalf("flattened %d nodes, want %d", len(out), len(wantOrder))
	}
	for i, id := range wantOrder {
		if out[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, out[i].Name, id)
		}
		if out[i].Children != nil {
			t.Errorf("flattened node %s still carries children", out[i].Name)
		}
	}
}
