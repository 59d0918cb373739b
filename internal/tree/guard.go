// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"github.com/google/uuid"

	"rigworks/internal/models"
)

// IllegalMove reports whether reparenting the node with the given id under
// newParent would create a cycle: the target parent is the node itself, or
// the target parent sits inside the node's own subtree. A nil newParent
// (move to root) is always legal.
//
// newParent must be the record as read before any mutation of the moving
// node, otherwise the path test is meaningless.
func IllegalMove(nodeID uuid.UUID, newParent *models.Category) bool {
	if newParent == nil {
		return false
	}
	if newParent.ID == nodeID {
		return true
	}
	return PathContains(newParent.Path, nodeID)
}
