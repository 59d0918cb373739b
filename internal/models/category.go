// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog's hierarchical category tree.
// Path holds the materialized ancestor chain from the root down to the
// node's parent, as concatenated "<uuid>/" segments; roots have an empty
// path. Level is the depth from the root (root = 0). SortOrder is the
// node's position among its siblings and is dense within a sibling group.
//
// ParentID, Path, Level, and SortOrder are maintained exclusively by the
// tree engine — plain field edits never touch them.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Path        string     `json:"path"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Children is populated by the tree assembler, never persisted.
	Children []Category `json:"children,omitempty"`
}

// IsRoot returns true for top-level categories.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// SubtreePrefix returns the path prefix shared by every descendant of the
// category: its own path extended with its own id segment.
func (c *Category) SubtreePrefix() string {
	return c.Path + c.ID.String() + "/"
}
