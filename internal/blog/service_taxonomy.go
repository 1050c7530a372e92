// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/constants"
	"github.com/taibuivan/lexora/internal/platform/validate"
	"github.com/taibuivan/lexora/pkg/uuid"
)

const (
	maxTermName        = 100
	maxTermDescription = 500
)

// # Taxonomy

/*
GetOrCreateCategory returns the category whose slug matches name, creating it
when absent.

Description: Idempotent by slug. An existing category is returned untouched,
so a differing description is ignored. When two callers race on the same
slug, the loser re-reads and returns the winner's row.
*/
func (service *Service) GetOrCreateCategory(context context.Context, name string, description *string) (*Category, error) {
	name = strings.TrimSpace(name)
	description = optionalString(description)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxTermName)
	if description != nil {
		validator.MaxLen(FieldDescription, *description, maxTermDescription)
	}
	termSlug := Slugify(name)
	if name != "" {
		validator.Custom(FieldName, !hasSlugCharacters(termSlug), "Must contain at least one letter or digit")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return getOrCreate(context, service, "category", termSlug,
		service.taxonomyRepository.FindCategoryBySlug,
		func() (*Category, error) {
			category := &Category{ID: uuid.New(), Name: name, Slug: termSlug, Description: description}
			return category, service.taxonomyRepository.CreateCategory(context, category)
		},
	)
}

// GetOrCreateTag is [Service.GetOrCreateCategory] for tags.
func (service *Service) GetOrCreateTag(context context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxTermName)
	termSlug := Slugify(name)
	if name != "" {
		validator.Custom(FieldName, !hasSlugCharacters(termSlug), "Must contain at least one letter or digit")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return getOrCreate(context, service, "tag", termSlug,
		service.taxonomyRepository.FindTagBySlug,
		func() (*Tag, error) {
			tag := &Tag{ID: uuid.New(), Name: name, Slug: termSlug}
			return tag, service.taxonomyRepository.CreateTag(context, tag)
		},
	)
}

// ListCategories returns every category with its post count.
func (service *Service) ListCategories(context context.Context) ([]*CategorySummary, error) {
	return cached(context, service, constants.CachePrefixCategories, "all", func() ([]*CategorySummary, error) {
		return service.taxonomyRepository.ListCategories(context)
	})
}

// ListTags returns every tag with its post count.
func (service *Service) ListTags(context context.Context) ([]*TagSummary, error) {
	return cached(context, service, constants.CachePrefixTags, "all", func() ([]*TagSummary, error) {
		return service.taxonomyRepository.ListTags(context)
	})
}

// getOrCreate runs find, then create, then find again when create lost a
// uniqueness race.
func getOrCreate[T any](ctx context.Context, service *Service, kind, slug string,
	find func(context.Context, string) (*T, error),
	create func() (*T, error),
) (*T, error) {
	existing, err := find(ctx, slug)
	if err == nil {
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	created, err := create()
	switch {
	case err == nil:
		service.invalidate(ctx)
		service.logger.InfoContext(ctx, kind+"_created", slog.String("slug", slug))
		return created, nil
	case apperr.IsConflict(err):
		return find(ctx, slug)
	default:
		return nil, err
	}
}
