// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rigworks/internal/models"
	"rigworks/internal/slug"
)

// Store is the persistence contract the tree engine requires. The
// category store in internal/store implements it over PostgreSQL; tests
// implement it in memory. Point reads return (nil, nil) when the id does
// not resolve. ListChildren and ListDescendants return records ordered by
// sort order. Transact runs fn against a transaction-scoped Store and
// commits only if fn returns nil; any error rolls every write back.
type Store interface {
	FindByID(id uuid.UUID) (*models.Category, error)
	ListAll(search string) ([]models.Category, error)
	ListChildren(parentID *uuid.UUID) ([]models.Category, error)
	ListDescendants(pathPrefix string) ([]models.Category, error)
	NextSortOrder(parentID *uuid.UUID) (int, error)
	SlugTaken(s string, excludeID *uuid.UUID) (bool, error)
	Insert(c *models.Category) (*models.Category, error)
	UpdateFields(c *models.Category) error
	UpdateStructure(id uuid.UUID, parentID *uuid.UUID, path string, level, sortOrder int) error
	UpdateSortOrder(id uuid.UUID, sortOrder int) error
	Delete(id uuid.UUID) error
	HasProducts(categoryID uuid.UUID) (bool, error)
	Transact(fn func(tx Store) error) error
}

// Service exposes every sanctioned mutation of the category tree. It is
// stateless; each call reads what it needs fresh from the store, so any
// number of request workers can share one Service.
type Service struct {
	store Store
}

// NewService returns a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the caller-supplied fields for a new category.
// Path, level, slug, and sort order are always derived, never accepted.
type CreateInput struct {
	Name        string
	Description string
	ParentID    *uuid.UUID
	IsActive    bool
}

// Create inserts a new category under the given parent (nil for root),
// deriving slug, path, level, and appending it at the end of the target
// sibling group.
func (s *Service) Create(in CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	var parent *models.Category
	if in.ParentID != nil {
		var err error
		parent, err = s.store.FindByID(*in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("parent %s: %w", *in.ParentID, ErrNotFound)
		}
	}

	path, level := ChildPathLevel(parent)

	uniqueSlug, err := s.uniqueSlug(name, nil)
	if err != nil {
		return nil, err
	}

	sortOrder, err := s.store.NextSortOrder(in.ParentID)
	if err != nil {
		return nil, fmt.Errorf("next sort order: %w", err)
	}

	created, err := s.store.Insert(&models.Category{
		Name:        name,
		Slug:        uniqueSlug,
		Description: in.Description,
		ParentID:    in.ParentID,
		Path:        path,
		Level:       level,
		SortOrder:   sortOrder,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return created, nil
}

// UpdateInput carries the plain-edit fields. Structural fields (parent,
// path, level, sort order) are only ever changed through Move.
type UpdateInput struct {
	Name        string
	Description string
	IsActive    bool
}

// Update applies a plain field edit to a category. The slug is recomputed
// from the new name, keeping global uniqueness while excluding the node
// itself from the collision check.
func (s *Service) Update(id uuid.UUID, in UpdateInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	node, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	if name != node.Name {
		node.Slug, err = s.uniqueSlug(name, &id)
		if err != nil {
			return nil, err
		}
	}
	node.Name = name
	node.Description = in.Description
	node.IsActive = in.IsActive

	if err := s.store.UpdateFields(node); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return node, nil
}

// Tree assembles the full category forest, optionally filtered by a
// case-insensitive name substring before assembly. The second return
// value lists orphaned nodes (parent missing from the result set); each
// keeps its own descendants nested under it and is surfaced for
// integrity reporting rather than folded into the forest.
func (s *Service) Tree(search string) ([]models.Category, []models.Category, error) {
	flat, err := s.store.ListAll(search)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	roots, orphans := Assemble(flat)
	return roots, orphans, nil
}

// Get returns a single category or ErrNotFound.
func (s *Service) Get(id uuid.UUID) (*models.Category, error) {
	node, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return node, nil
}

// Move reparents and/or reorders a category. The node's whole subtree has
// its paths and levels rewritten, and both affected sibling groups are
// resequenced, all inside one store transaction — a crash mid-move leaves
// the tree exactly as it was. The target position is clamped to the valid
// range rather than rejected, since drag targets from the UI are
// imprecise. Returns every record that changed.
func (s *Service) Move(nodeID uuid.UUID, newParentID *uuid.UUID, newSortOrder int) ([]models.Category, error) {
	var changed []models.Category

	err := s.store.Transact(func(tx Store) error {
		node, err := tx.FindByID(nodeID)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if node == nil {
			return fmt.Errorf("category %s: %w", nodeID, ErrNotFound)
		}

		var newParent *models.Category
		if newParentID != nil {
			newParent, err = tx.FindByID(*newParentID)
			if err != nil {
				return fmt.Errorf("load target parent: %w", err)
			}
			if newParent == nil {
				return fmt.Errorf("target parent %s: %w", *newParentID, ErrNotFound)
			}
		}

		// Cycle guard runs against records read before any mutation.
		if IllegalMove(node.ID, newParent) {
			return fmt.Errorf("cannot move %q under its own subtree: %w", node.Name, ErrInvalidMove)
		}

		oldParentID := node.ParentID
		oldPrefix := node.SubtreePrefix()
		sameGroup := sameParent(oldParentID, newParentID)

		descendants, err := tx.ListDescendants(oldPrefix)
		if err != nil {
			return fmt.Errorf("list descendants: %w", err)
		}

		newSiblings, err := tx.ListChildren(newParentID)
		if err != nil {
			return fmt.Errorf("list target siblings: %w", err)
		}
		newSiblings = withoutNode(newSiblings, node.ID)

		// Clamp the requested position to [0, len(siblings)].
		pos := newSortOrder
		if pos < 0 {
			pos = 0
		}
		if pos > len(newSiblings) {
			pos = len(newSiblings)
		}

		newPath, newLevel := ChildPathLevel(newParent)
		levelDelta := newLevel - node.Level

		node.ParentID = newParentID
		node.Path = newPath
		node.Level = newLevel
		node.SortOrder = pos
		if err := tx.UpdateStructure(node.ID, newParentID, newPath, newLevel, pos); err != nil {
			return fmt.Errorf("update moved category: %w", err)
		}
		changed = append(changed, *node)

		// Rewrite the whole subtree: each descendant keeps its relative
		// position, only the ancestor prefix and absolute level change.
		newPrefix := node.SubtreePrefix()
		for _, d := range descendants {
			rebased, ok := RebasePath(d.Path, oldPrefix, newPrefix)
			if !ok {
				return fmt.Errorf("descendant %s has path %q outside subtree %q", d.ID, d.Path, oldPrefix)
			}
			d.Path = rebased
			d.Level += levelDelta
			if err := tx.UpdateStructure(d.ID, d.ParentID, d.Path, d.Level, d.SortOrder); err != nil {
				return fmt.Errorf("update descendant %s: %w", d.ID, err)
			}
			changed = append(changed, d)
		}

		// Close the gap in the group the node left.
		if !sameGroup {
			oldSiblings, err := tx.ListChildren(oldParentID)
			if err != nil {
				return fmt.Errorf("list old siblings: %w", err)
			}
			changed, err = applyRenumber(tx, oldSiblings, changed)
			if err != nil {
				return err
			}
		}

		// Make room at / settle into the target position.
		desired := insertAt(newSiblings, *node, pos)
		changed, err = applyRenumber(tx, desired, changed)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// Delete removes a category. With detach=false it refuses while the node
// still has subcategories or assigned products. With detach=true the
// direct children (and their subtrees) are reparented to the deleted
// node's parent in the same transaction, appended after the surviving
// siblings in their previous relative order.
func (s *Service) Delete(id uuid.UUID, detach bool) error {
	return s.store.Transact(func(tx Store) error {
		node, err := tx.FindByID(id)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if node == nil {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}

		children, err := tx.ListChildren(&id)
		if err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		if len(children) > 0 && !detach {
			return fmt.Errorf("category %q still has %d subcategories: %w", node.Name, len(children), ErrConflict)
		}

		inUse, err := tx.HasProducts(id)
		if err != nil {
			return fmt.Errorf("check products: %w", err)
		}
		if inUse {
			return fmt.Errorf("category %q still has products assigned: %w", node.Name, ErrConflict)
		}

		siblings, err := tx.ListChildren(node.ParentID)
		if err != nil {
			return fmt.Errorf("list siblings: %w", err)
		}
		siblings = withoutNode(siblings, node.ID)

		// Reparent each direct child (with its subtree) one level up.
		for _, child := range children {
			oldPrefix := child.SubtreePrefix()

			child.ParentID = node.ParentID
			child.Path = node.Path
			child.Level--
			if err := tx.UpdateStructure(child.ID, child.ParentID, child.Path, child.Level, child.SortOrder); err != nil {
				return fmt.Errorf("detach child %s: %w", child.ID, err)
			}

			newPrefix := child.SubtreePrefix()
			grandchildren, err := tx.ListDescendants(oldPrefix)
			if err != nil {
				return fmt.Errorf("list detached subtree: %w", err)
			}
			for _, d := range grandchildren {
				rebased, ok := RebasePath(d.Path, oldPrefix, newPrefix)
				if !ok {
					return fmt.Errorf("descendant %s has path %q outside subtree %q", d.ID, d.Path, oldPrefix)
				}
				d.Path = rebased
				d.Level--
				if err := tx.UpdateStructure(d.ID, d.ParentID, d.Path, d.Level, d.SortOrder); err != nil {
					return fmt.Errorf("update detached descendant %s: %w", d.ID, err)
				}
			}

			siblings = append(siblings, child)
		}

		if err := tx.Delete(id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}

		_, err = applyRenumber(tx, siblings, nil)
		return err
	})
}

// uniqueSlug derives a slug from name and suffixes it until it is free.
// The store lookup errors are carried out through the closure.
func (s *Service) uniqueSlug(name string, excludeID *uuid.UUID) (string, error) {
	var lookupErr error
	unique := slug.Unique(slug.Generate(name), func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := s.store.SlugTaken(candidate, excludeID)
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	if lookupErr != nil {
		return "", fmt.Errorf("check slug: %w", lookupErr)
	}
	return unique, nil
}

// applyRenumber persists dense sort orders for a sibling group in its
// desired order and records the rewritten siblings in changed.
func applyRenumber(tx Store, desired []models.Category, changed []models.Category) ([]models.Category, error) {
	for _, u := range Renumber(desired) {
		if err := tx.UpdateSortOrder(u.ID, u.SortOrder); err != nil {
			return changed, fmt.Errorf("resequence sibling %s: %w", u.ID, err)
		}
		for i := range desired {
			if desired[i].ID == u.ID {
				desired[i].SortOrder = u.SortOrder
				changed = appendChanged(changed, desired[i])
				break
			}
		}
	}
	return changed, nil
}

// appendChanged records c, replacing an earlier entry for the same id so
// the caller sees each record's final state exactly once.
func appendChanged(changed []models.Category, c models.Category) []models.Category {
	for i := range changed {
		if changed[i].ID == c.ID {
			changed[i] = c
			return changed
		}
	}
	return append(changed, c)
}

func withoutNode(group []models.Category, id uuid.UUID) []models.Category {
	out := group[:0]
	for _, c := range group {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func insertAt(group []models.Category, c models.Category, pos int) []models.Category {
	out := make([]models.Category, 0, len(group)+1)
	out = append(out, group[:pos]...)
	out = append(out, c)
	out = append(out, group[pos:]...)
	return out
}
