// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree implements the category tree engine: materialized-path
// bookkeeping, tree assembly, sibling ordering, and the reparent/reorder
// (move) operation. Persistence is delegated to a Store implementation;
// everything else in this package is pure computation.
package tree

import (
	"strings"

	"github.com/google/uuid"

	"rigworks/internal/models"
)

// pathSep terminates every id segment in a materialized path, so a path
// looks like "<uuid>/<uuid>/" and segment containment tests are exact.
const pathSep = "/"

// ChildPathLevel derives the materialized path and depth for a child of
// parent. A nil parent means the child is a root: empty path, level 0.
func ChildPathLevel(parent *models.Category) (string, int) {
	if parent == nil {
		return "", 0
	}
	return parent.Path + parent.ID.String() + pathSep, parent.Level + 1
}

// PathContains reports whether id appears as an ancestor segment of path.
func PathContains(path string, id uuid.UUID) bool {
	return strings.Contains(path, id.String()+pathSep)
}

// RebasePath swaps oldPrefix for newPrefix at the start of path. The
// second return value is false when path does not start with oldPrefix,
// i.e. the node is not inside the subtree being rebased.
func RebasePath(path, oldPrefix, newPrefix string) (string, bool) {
	if !strings.HasPrefix(path, oldPrefix) {
		return path, false
	}
	return newPrefix + path[len(oldPrefix):], true
}

// PathSegments splits a materialized path into its ancestor ids, root
// first. An empty path yields nil.
func PathSegments(path string) []uuid.UUID {
	if path == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(path, pathSep), pathSep)
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// sameParent compares two parent-id pointers: both nil, or same value.
func sameParent(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
