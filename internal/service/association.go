package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "blogly/internal/errors"
	"blogly/internal/repository"
)

// TagSetChange lists the junction rows a ReplaceTagSet call inserted and deleted.
type TagSetChange struct {
	Added   []uint
	Removed []uint
}

// Empty reports whether the call wrote nothing.
func (c TagSetChange) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// AssociationManager keeps Post.Tags and Tag.Posts consistent by writing the
// posts_tags junction explicitly. Every method works on the store handle of the
// caller's unit of work.
type AssociationManager struct{}

// NewAssociationManager creates an association manager.
func NewAssociationManager() *AssociationManager {
	return &AssociationManager{}
}

// ReplaceTagSet makes the post's tags exactly the existing tags among desired.
// Only the difference against the current set is written, so a repeated call
// with the same input writes nothing.
func (m *AssociationManager) ReplaceTagSet(ctx context.Context, tx repository.Store, postID uint, desired []uint) (TagSetChange, error) {
	var change TagSetChange

	resolved, err := tx.Tags().FindByIDs(ctx, uniqueIDs(desired))
	if err != nil {
		return change, fmt.Errorf("resolve tags: %w", err)
	}
	current, err := tx.PostTags().TagIDsForPost(ctx, postID)
	if err != nil {
		return change, fmt.Errorf("load post tags: %w", err)
	}

	want := make(map[uint]struct{}, len(resolved))
	for _, tag := range resolved {
		want[tag.ID] = struct{}{}
	}
	have := make(map[uint]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}

	for _, tag := range resolved {
		if _, ok := have[tag.ID]; !ok {
			change.Added = append(change.Added, tag.ID)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			change.Removed = append(change.Removed, id)
		}
	}

	if err := tx.PostTags().Attach(ctx, postID, change.Added); err != nil {
		return change, fmt.Errorf("attach tags: %w", err)
	}
	if _, err := tx.PostTags().Detach(ctx, postID, change.Removed); err != nil {
		return change, fmt.Errorf("detach tags: %w", err)
	}
	return change, nil
}

// DetachTagFromAllPosts removes every association of the tag and returns how
// many posts lost it. Other tags of those posts are untouched.
func (m *AssociationManager) DetachTagFromAllPosts(ctx context.Context, tx repository.Store, tagID uint) (int64, error) {
	n, err := tx.PostTags().DeleteByTag(ctx, tagID)
	if err != nil {
		return 0, fmt.Errorf("detach tag %d: %w", tagID, err)
	}
	return n, nil
}

// DeleteTagCascading locks the tag, detaches it from all posts and deletes it.
// The delete is conditional on the version read under the lock; a mismatch
// means another unit of work got there first and yields ErrTagConflict.
func (m *AssociationManager) DeleteTagCascading(ctx context.Context, tx repository.Store, tagID uint) (int64, error) {
	tag, err := tx.Tags().FindByIDForUpdate(ctx, tagID)
	if err != nil {
		return 0, notFound(err, apperrors.ErrTagNotFound)
	}

	detached, err := m.DetachTagFromAllPosts(ctx, tx, tag.ID)
	if err != nil {
		return 0, err
	}

	if err := tx.Tags().Delete(ctx, tag.ID, tag.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return 0, apperrors.ErrTagConflict
		}
		return 0, fmt.Errorf("delete tag %d: %w", tag.ID, err)
	}
	return detached, nil
}

// DeletePostCascading removes the post's junction rows and then the post.
func (m *AssociationManager) DeletePostCascading(ctx context.Context, tx repository.Store, postID uint) error {
	post, err := tx.Posts().FindByIDForUpdate(ctx, postID)
	if err != nil {
		return notFound(err, apperrors.ErrPostNotFound)
	}

	if _, err := tx.PostTags().DeleteByPost(ctx, post.ID); err != nil {
		return fmt.Errorf("detach post %d: %w", post.ID, err)
	}

	if err := tx.Posts().Delete(ctx, post.ID, post.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return apperrors.ErrPostConflict
		}
		return fmt.Errorf("delete post %d: %w", post.ID, err)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
