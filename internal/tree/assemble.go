// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"sort"

	"github.com/google/uuid"

	"rigworks/internal/models"
)

// Assemble converts a flat slice of categories into a forest of root
// nodes with Children populated recursively, siblings ordered by
// (sort_order, id). The id tiebreak keeps output deterministic even if
// duplicate sort orders ever reach us from storage.
//
// Nodes whose parent id is absent from the input are excluded from the
// forest and returned separately, each carrying its own descendants so
// the whole fragment stays reachable; the caller decides how to report
// them. Every input node appears exactly once across roots and orphans.
// Assemble does not mutate its input and is idempotent.
func Assemble(nodes []models.Category) (roots []models.Category, orphans []models.Category) {
	present := make(map[uuid.UUID]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	// Index children by parent id first, then walk from the roots, so
	// assembly stays O(n) instead of re-scanning the slice per node.
	children := make(map[uuid.UUID][]models.Category)
	for _, n := range nodes {
		n.Children = nil
		switch {
		case n.ParentID == nil:
			roots = append(roots, n)
		case present[*n.ParentID]:
			children[*n.ParentID] = append(children[*n.ParentID], n)
		default:
			orphans = append(orphans, n)
		}
	}

	sortSiblings(roots)
	for id := range children {
		sortSiblings(children[id])
	}

	var attach func(n *models.Category)
	attach = func(n *models.Category) {
		group := children[n.ID]
		if len(group) == 0 {
			return
		}
		n.Children = make([]models.Category, len(group))
		copy(n.Children, group)
		for i := range n.Children {
			attach(&n.Children[i])
		}
	}
	for i := range roots {
		attach(&roots[i])
	}
	// An orphan's children point at a present parent, so they sit in the
	// children index; attach them here or the fragment would vanish.
	for i := range orphans {
		attach(&orphans[i])
	}

	return roots, orphans
}

// Flatten walks a category forest depth-first, returning the display
// order with Level already set on each node. Useful for indented
// dropdowns in the admin UI.
func Flatten(forest []models.Category) []models.Category {
	var out []models.Category
	var walk func(nodes []models.Category)
	walk = func(nodes []models.Category) {
		for _, n := range nodes {
			kids := n.Children
			n.Children = nil
			out = append(out, n)
			walk(kids)
		}
	}
	walk(forest)
	return out
}

func sortSiblings(group []models.Category) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].SortOrder != group[j].SortOrder {
			return group[i].SortOrder < group[j].SortOrder
		}
		return group[i].ID.String() < group[j].ID.String()
	})
}
