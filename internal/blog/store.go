// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"time"
)

// PostRepository defines the persistence contract for posts.
//
// Every read returns posts with author, categories and tags hydrated.
type PostRepository interface {
	// ListPublished returns posts Live at now, newest publishedAt first, and the total match count.
	ListPublished(ctx context.Context, filter PublishedFilter, now time.Time, limit, offset int) ([]*Post, int, error)

	// ListAll returns every post, newest createdAt first, and the total match count.
	ListAll(ctx context.Context, filter AdminFilter, limit, offset int) ([]*Post, int, error)

	// FindByID returns [apperr.NotFound] when absent.
	FindByID(ctx context.Context, id string) (*Post, error)

	// FindBySlug returns [apperr.NotFound] when absent.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// ListRelated returns up to limit posts Live at now, other than postID,
	// sharing at least one of categoryIDs or tagIDs.
	ListRelated(ctx context.Context, postID string, categoryIDs, tagIDs []string, now time.Time, limit int) ([]*Post, error)

	// Create inserts the post and links its categories and tags atomically.
	// Returns [apperr.Conflict] on a duplicate slug and [apperr.ValidationError]
	// on an unknown author, category or tag id.
	Create(ctx context.Context, post *Post, categoryIDs, tagIDs []string) error

	// Update writes every mutable column, and replaces the category or tag set
	// when the corresponding argument is non-nil. Returns [apperr.NotFound] when absent.
	Update(ctx context.Context, post *Post, categoryIDs, tagIDs *[]string) error

	// Delete removes the post and its links. Returns [apperr.NotFound] when absent.
	Delete(ctx context.Context, id string) error

	// IncrementViews adds delta to the view counter in a single statement.
	IncrementViews(ctx context.Context, id string, delta int) error
}

// TaxonomyRepository defines the persistence contract for categories and tags.
type TaxonomyRepository interface {
	// FindCategoryBySlug returns [apperr.NotFound] when absent.
	FindCategoryBySlug(ctx context.Context, slug string) (*Category, error)

	// CreateCategory returns [apperr.Conflict] when the slug is taken.
	CreateCategory(ctx context.Context, category *Category) error

	// ListCategories returns every category with its post count, by name.
	ListCategories(ctx context.Context) ([]*CategorySummary, error)

	// FindTagBySlug returns [apperr.NotFound] when absent.
	FindTagBySlug(ctx context.Context, slug string) (*Tag, error)

	// CreateTag returns [apperr.Conflict] when the slug is taken.
	CreateTag(ctx context.Context, tag *Tag) error

	// ListTags returns every tag with its post count, by name.
	ListTags(ctx context.Context) ([]*TagSummary, error)
}
