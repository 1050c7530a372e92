// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/database/schema"
	"github.com/taibuivan/lexora/internal/platform/dberr"
)

// taxonomyRepository implements the [TaxonomyRepository] interface using pgx.
type taxonomyRepository struct {
	db *pgxpool.Pool
}

// NewTaxonomyRepository constructs a PostgreSQL backed category and tag store.
func NewTaxonomyRepository(db *pgxpool.Pool) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// # Categories

func (repository *taxonomyRepository) FindCategoryBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug, schema.BlogCategory.Description,
		schema.BlogCategory.Table, schema.BlogCategory.Slug)

	category := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&category.ID, &category.Name, &category.Slug, &category.Description)
	if err != nil {
		return nil, dberr.Wrap(err, "Category")
	}
	return category, nil
}

func (repository *taxonomyRepository) CreateCategory(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.BlogCategory.Table,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug, schema.BlogCategory.Description)

	_, err := repository.db.Exec(context, query, category.ID, category.Name, category.Slug, category.Description)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.BlogCategory.SlugKey) {
			conflict := apperr.Conflict("A category with this slug already exists")
			conflict.Cause = err
			return conflict
		}
		return dberr.Wrap(fmt.Errorf("postgres: failed to create category: %w", err), "Category")
	}
	return nil
}

func (repository *taxonomyRepository) ListCategories(context context.Context) ([]*CategorySummary, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, COUNT(j.%s)
		FROM %s c
		LEFT JOIN %s j ON j.%s = c.%s
		GROUP BY c.%s
		ORDER BY c.%s ASC, c.%s ASC`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug, schema.BlogCategory.Description,
		schema.BlogPostCategory.OwnerID,
		schema.BlogCategory.Table,
		schema.BlogPostCategory.Table, schema.BlogPostCategory.TermID, schema.BlogCategory.ID,
		schema.BlogCategory.ID,
		schema.BlogCategory.Name, schema.BlogCategory.Slug,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: failed to list categories: %w", err), "Category")
	}
	defer rows.Close()

	categories := make([]*CategorySummary, 0)
	for rows.Next() {
		summary := &CategorySummary{}
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Slug, &summary.Description, &summary.PostCount); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: failed to scan category: %w", err), "Category")
		}
		categories = append(categories, summary)
	}

	return categories, dberr.Wrap(rows.Err(), "Category")
}

// # Tags

func (repository *taxonomyRepository) FindTagBySlug(context context.Context, slug string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogTag.Table, schema.BlogTag.Slug)

	tag := &Tag{}
	err := repository.db.QueryRow(context, query, slug).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return tag, nil
}

func (repository *taxonomyRepository) CreateTag(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.BlogTag.Table, schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug)

	_, err := repository.db.Exec(context, query, tag.ID, tag.Name, tag.Slug)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.BlogTag.SlugKey) {
			conflict := apperr.Conflict("A tag with this slug already exists")
			conflict.Cause = err
			return conflict
		}
		return dberr.Wrap(fmt.Errorf("postgres: failed to create tag: %w", err), "Tag")
	}
	return nil
}

func (repository *taxonomyRepository) ListTags(context context.Context) ([]*TagSummary, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, COUNT(j.%s)
		FROM %s t
		LEFT JOIN %s j ON j.%s = t.%s
		GROUP BY t.%s
		ORDER BY t.%s ASC, t.%s ASC`,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogPostTag.OwnerID,
		schema.BlogTag.Table,
		schema.BlogPostTag.Table, schema.BlogPostTag.TermID, schema.BlogTag.ID,
		schema.BlogTag.ID,
		schema.BlogTag.Name, schema.BlogTag.Slug,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: failed to list tags: %w", err), "Tag")
	}
	defer rows.Close()

	tags := make([]*TagSummary, 0)
	for rows.Next() {
		summary := &TagSummary{}
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Slug, &summary.PostCount); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: failed to scan tag: %w", err), "Tag")
		}
		tags = append(tags, summary)
	}

	return tags, dberr.Wrap(rows.Err(), "Tag")
}
