// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/constants"
	"github.com/taibuivan/lexora/internal/platform/validate"
	"github.com/taibuivan/lexora/pkg/pagination"
	"github.com/taibuivan/lexora/pkg/uuid"
)

const (
	// DefaultPublicLimit is the public listing page size.
	DefaultPublicLimit = 10
	// DefaultAdminLimit is the admin listing page size.
	DefaultAdminLimit = 20
	// DefaultRelatedLimit is how many related posts a post page shows.
	DefaultRelatedLimit = 3
	// MaxRelatedLimit caps the related-posts request.
	MaxRelatedLimit = 20

	maxTitleLength = 300
	maxURLLength   = 2048
	maxAuthorName  = 200
)

// PostPage is one page of posts with its pagination metadata.
type PostPage struct {
	Posts []*Post         `json:"posts"`
	Meta  pagination.Meta `json:"meta"`
}

// # Public Reads

/*
GetPublishedPosts returns a page of Live posts.

Description: Only posts that are published with publishedAt <= now are
returned, newest first. Results are served from the listing cache when one is
configured; a cached page can lag a scheduled post's go-live by at most the
cache TTL.

Parameters:
  - context: context.Context
  - params: pagination.Params (page, limit)
  - filter: PublishedFilter (category slug, tag slug, search)

Returns:
  - *PostPage: posts plus {page, limit, total, totalPages, hasMore}
  - error: storage failures
*/
func (service *Service) GetPublishedPosts(context context.Context, params pagination.Params, filter PublishedFilter) (*PostPage, error) {
	params = pagination.New(params.Page, params.Limit, DefaultPublicLimit)
	filter.Search = strings.TrimSpace(filter.Search)

	variant := fmt.Sprintf("p%d:l%d:c%q:t%q:q%q", params.Page, params.Limit, filter.CategorySlug, filter.TagSlug, filter.Search)

	return cached(context, service, constants.CachePrefixPublishedPosts, variant, func() (*PostPage, error) {
		posts, total, err := service.postRepository.ListPublished(context, filter, service.now(), params.Limit, params.Offset())
		if err != nil {
			return nil, err
		}
		return &PostPage{Posts: posts, Meta: pagination.NewMeta(params, total)}, nil
	})
}

// GetPostBySlug returns the post with its relations, or (nil, nil) when no
// post has that slug. Visibility is the caller's concern.
func (service *Service) GetPostBySlug(context context.Context, slug string) (*Post, error) {
	post, err := service.postRepository.FindBySlug(context, slug)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return post, err
}

/*
GetRelatedPosts returns Live posts sharing a category or tag with postID.

Description: A missing source post, or one with neither categories nor tags,
yields an empty slice rather than an error. limit defaults to 3 and is
capped at 20.
*/
func (service *Service) GetRelatedPosts(context context.Context, postID string, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	limit = min(limit, MaxRelatedLimit)

	if !uuid.Valid(postID) {
		return []*Post{}, nil
	}

	source, err := service.postRepository.FindByID(context, postID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return []*Post{}, nil
		}
		return nil, err
	}

	categoryIDs, tagIDs := source.CategoryIDs(), source.TagIDs()
	if len(categoryIDs) == 0 && len(tagIDs) == 0 {
		return []*Post{}, nil
	}

	return service.postRepository.ListRelated(context, source.ID, categoryIDs, tagIDs, service.now(), limit)
}

// IncrementViews records one read of postID without blocking the caller.
//
// The update runs on its own goroutine with a bounded timeout, detached from
// the request's cancellation. Failures are logged and dropped.
func (service *Service) IncrementViews(ctx context.Context, postID string) {
	detached := context.WithoutCancel(ctx)

	service.background.Add(1)
	go func() {
		defer service.background.Done()

		taskCtx, cancel := context.WithTimeout(detached, service.viewTimeout)
		defer cancel()

		if err := service.postRepository.IncrementViews(taskCtx, postID, 1); err != nil {
			service.logger.WarnContext(taskCtx, "post_view_increment_failed",
				slog.String("post_id", postID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// # Admin Reads

// GetAllPosts returns every post regardless of state, newest created first.
func (service *Service) GetAllPosts(context context.Context, params pagination.Params, filter AdminFilter) (*PostPage, error) {
	params = pagination.New(params.Page, params.Limit, DefaultAdminLimit)

	posts, total, err := service.postRepository.ListAll(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Meta: pagination.NewMeta(params, total)}, nil
}

// GetPostByID returns the post with its relations, or NotFound.
func (service *Service) GetPostByID(context context.Context, id string) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Post")
	}
	return service.postRepository.FindByID(context, id)
}

// # Post Management

/*
CreatePost validates and persists a new post.

Description: Derives the slug from the title unless one is supplied (supplied
slugs are normalised the same way), derives reading time, and defaults the
excerpt. A published post is stamped with the supplied publishedAt or now;
a draft never carries one.

Returns:
  - *Post: the stored post with relations hydrated
  - error: ValidationError, Conflict (slug taken) or storage failures
*/
func (service *Service) CreatePost(context context.Context, input CreatePostInput) (*Post, error) {
	title := strings.TrimSpace(input.Title)

	// ── 1. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, maxTitleLength)
	validator.Required(FieldContent, input.Content)

	postSlug := Slugify(title)
	if supplied := optionalString(input.Slug); supplied != nil {
		postSlug = Slugify(*supplied)
	}
	if title != "" {
		validator.Custom(FieldSlug, !hasSlugCharacters(postSlug), "Must contain at least one letter or digit")
	}

	featuredImage := optionalString(input.FeaturedImage)
	authorID := optionalString(input.AuthorID)
	authorName := optionalString(input.AuthorName)
	service.validateOptionalFields(validator, featuredImage, authorID, authorName)

	validator.UUIDs(FieldCategoryIDs, input.CategoryIDs).UUIDs(FieldTagIDs, input.TagIDs)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Derivations ────────────────────────────────────────────────────

	excerpt := GenerateExcerpt(input.Content)
	if supplied := optionalString(input.Excerpt); supplied != nil {
		excerpt = *supplied
	}

	post := &Post{
		ID:            uuid.New(),
		Title:         title,
		Slug:          postSlug,
		Content:       input.Content,
		Excerpt:       excerpt,
		FeaturedImage: featuredImage,
		Published:     input.Published,
		ReadingTime:   ReadingTime(input.Content),
		AuthorID:      authorID,
		AuthorName:    authorName,
	}

	if post.Published {
		publishedAt := service.now()
		if input.PublishedAt != nil {
			publishedAt = input.PublishedAt.UTC()
		}
		post.PublishedAt = &publishedAt
	}

	// ── 3. Uniqueness Pre-check ───────────────────────────────────────────

	if err := service.ensureSlugAvailable(context, post.Slug, ""); err != nil {
		return nil, err
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.postRepository.Create(context, post, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, err
	}

	service.invalidate(context)
	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.String("slug", post.Slug),
		slog.Bool("published", post.Published),
	)

	return service.postRepository.FindByID(context, post.ID)
}

/*
UpdatePost applies a partial update to an existing post.

Description: The stored post is read, the patch is applied in memory and the
result is written back.

  - Content change: reading time is recomputed, and the excerpt is
    regenerated unless a non-empty excerpt is part of the same patch. A
    previously customised excerpt is overwritten.
  - published=true without publishedAt stamps now, but only when the post has
    never been published; republishing keeps the original date.
  - An explicit publishedAt reschedules the post only when the result is
    published. publishedAt is never cleared.
  - Supplied category or tag id lists replace the existing sets.

Returns:
  - *Post: the stored post with relations hydrated
  - error: NotFound, ValidationError, Conflict (slug taken) or storage failures
*/
func (service *Service) UpdatePost(context context.Context, id string, input UpdatePostInput) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Post")
	}

	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	// ── 1. Text Fields ────────────────────────────────────────────────────

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, post.Title).MaxLen(FieldTitle, post.Title, maxTitleLength)
	}

	if input.Slug != nil {
		post.Slug = Slugify(*input.Slug)
		validator.Custom(FieldSlug, !hasSlugCharacters(post.Slug), "Must contain at least one letter or digit")
	}

	suppliedExcerpt := optionalString(input.Excerpt)

	if input.Content != nil {
		validator.Required(FieldContent, *input.Content)
		post.Content = *input.Content
		post.ReadingTime = ReadingTime(post.Content)
		if suppliedExcerpt == nil {
			post.Excerpt = GenerateExcerpt(post.Content)
		}
	}

	if suppliedExcerpt != nil {
		post.Excerpt = *suppliedExcerpt
	} else if input.Excerpt != nil {
		// An explicitly blank excerpt falls back to the derived one.
		post.Excerpt = GenerateExcerpt(post.Content)
	}

	if input.FeaturedImage != nil {
		post.FeaturedImage = optionalString(input.FeaturedImage)
	}
	if input.AuthorID != nil {
		post.AuthorID = optionalString(input.AuthorID)
	}
	if input.AuthorName != nil {
		post.AuthorName = optionalString(input.AuthorName)
	}
	service.validateOptionalFields(validator, post.FeaturedImage, post.AuthorID, post.AuthorName)

	if input.CategoryIDs != nil {
		validator.UUIDs(FieldCategoryIDs, *input.CategoryIDs)
	}
	if input.TagIDs != nil {
		validator.UUIDs(FieldTagIDs, *input.TagIDs)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Publication State ──────────────────────────────────────────────

	if input.Published != nil {
		post.Published = *input.Published
	}

	if input.PublishedAt != nil && post.Published {
		publishedAt := input.PublishedAt.UTC()
		post.PublishedAt = &publishedAt
	} else if input.Published != nil && *input.Published && post.PublishedAt == nil {
		publishedAt := service.now()
		post.PublishedAt = &publishedAt
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if input.Slug != nil {
		if err := service.ensureSlugAvailable(context, post.Slug, post.ID); err != nil {
			return nil, err
		}
	}

	if err := service.postRepository.Update(context, post, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, err
	}

	service.invalidate(context)
	service.logger.InfoContext(context, "post_updated",
		slog.String("post_id", post.ID),
		slog.Bool("published", post.Published),
	)

	return service.postRepository.FindByID(context, post.ID)
}

// DeletePost removes a post permanently.
func (service *Service) DeletePost(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Post")
	}

	if err := service.postRepository.Delete(context, id); err != nil {
		return err
	}

	service.invalidate(context)
	service.logger.InfoContext(context, "post_deleted", slog.String("post_id", id))
	return nil
}

// # Helpers

// ensureSlugAvailable fails with Conflict when another post owns slug. The
// unique constraint still settles races the pre-check cannot see.
func (service *Service) ensureSlugAvailable(context context.Context, slug, ownerID string) error {
	existing, err := service.postRepository.FindBySlug(context, slug)
	switch {
	case err == nil && existing.ID != ownerID:
		return apperr.Conflict("A post with this slug already exists")
	case err == nil, apperr.IsNotFound(err):
		return nil
	default:
		return err
	}
}

func (service *Service) validateOptionalFields(validator *validate.Validator, featuredImage, authorID, authorName *string) {
	if featuredImage != nil {
		validator.MaxLen(FieldFeaturedImage, *featuredImage, maxURLLength)
	}
	if authorID != nil {
		validator.UUID(FieldAuthorID, *authorID)
	}
	if authorName != nil {
		validator.MaxLen(FieldAuthorName, *authorName, maxAuthorName)
	}
}

// optionalString trims value and maps blank to nil.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func hasSlugCharacters(slug string) bool {
	return strings.Trim(slug, "-_") != ""
}
