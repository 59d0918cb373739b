// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import "errors"

// Sentinel errors returned by the tree engine. Callers match them with
// errors.Is; layers above translate them to HTTP statuses.
var (
	// ErrNotFound means a category id did not resolve to a record.
	ErrNotFound = errors.New("category not found")

	// ErrInvalidMove means a move would make a node its own ancestor
	// (self-parenting or reparenting under its own subtree).
	ErrInvalidMove = errors.New("invalid move")

	// ErrConflict means a structural constraint blocks the operation,
	// e.g. deleting a category that still has subcategories or products.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input itself is malformed, e.g. empty name.
	ErrValidation = errors.New("invalid input")
)
