// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"github.com/google/uuid"

	"rigworks/internal/models"
)

// SortUpdate is a single sibling whose sort order must be rewritten.
type SortUpdate struct {
	ID        uuid.UUID
	SortOrder int
}

// Renumber assigns dense zero-based sort orders (0..n-1) to a sibling
// group already in the caller's desired order, returning only the entries
// whose stored value differs. Keeping the result minimal keeps the write
// volume of a move proportional to the disturbance, not the group size.
func Renumber(ordered []models.Category) []SortUpdate {
	var updates []SortUpdate
	for i, c := range ordered {
		if c.SortOrder != i {
			updates = append(updates, SortUpdate{ID: c.ID, SortOrder: i})
		}
	}
	return updates
}
