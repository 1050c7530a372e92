// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog provides the PostgreSQL implementation of post storage.

It leans on a few PostgreSQL features:
  - JSON Aggregation: categories and tags are fetched in the same round-trip.
  - Window Functions: COUNT(*) OVER() returns the total alongside a page.
  - EXISTS filters: category and tag filters never multiply rows.
  - ACID Transactions: a post and its junction rows are written together.
*/
package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/database/schema"
	"github.com/taibuivan/lexora/internal/platform/dberr"
)

// postRepository implements the [PostRepository] interface using pgx.
type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository constructs a PostgreSQL backed post store.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

// postSelect is the hydrated projection shared by every post read. scanPost
// must stay in step with its column order.
const postSelect = `
	SELECT
		p.id, p.title, p.slug, p.content, p.excerpt, p.featuredimage,
		p.published, p.publishedat, p.views, p.readingtime,
		p.authorid, p.authorname, p.createdat, p.updatedat,
		pr.id, pr.slug, pr.firstname, pr.lastname, pr.title,
		COALESCE((
			SELECT json_agg(json_build_object('id', c.id, 'name', c.name, 'slug', c.slug, 'description', c.description) ORDER BY c.name)
			FROM blog.category c
			JOIN blog.postcategory pc ON pc.categoryid = c.id
			WHERE pc.postid = p.id
		), '[]') AS categories,
		COALESCE((
			SELECT json_agg(json_build_object('id', t.id, 'name', t.name, 'slug', t.slug) ORDER BY t.name)
			FROM blog.tag t
			JOIN blog.posttag pt ON pt.tagid = t.id
			WHERE pt.postid = p.id
		), '[]') AS tags`

const postFrom = `
	FROM blog.post p
	LEFT JOIN core.professional pr ON pr.id = p.authorid`

// # Listing

/*
ListPublished returns the page of posts Live at now.

Description: Filters on published AND publishedat <= now, then narrows by
category slug, tag slug (EXISTS sub-queries) and a case-insensitive substring
search over title, content and excerpt. LIKE wildcards in the search text are
escaped so they match literally.

Parameters:
  - context: context.Context
  - filter: PublishedFilter
  - now: time.Time (visibility cut-off)
  - limit, offset: int

Returns:
  - []*Post: hydrated posts, publishedAt DESC, id DESC
  - int: total matches
  - error: storage failures
*/
func (repository *postRepository) ListPublished(context context.Context, filter PublishedFilter, now time.Time, limit, offset int) ([]*Post, int, error) {
	var where strings.Builder
	args := []any{now}
	argID := 2

	where.WriteString(" WHERE p.published AND p.publishedat <= $1")

	// Category Filtering
	if filter.CategorySlug != "" {
		where.WriteString(fmt.Sprintf(`
		AND EXISTS (
			SELECT 1 FROM blog.postcategory pc
			JOIN blog.category c ON c.id = pc.categoryid
			WHERE pc.postid = p.id AND c.slug = $%d)`, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	// Tag Filtering
	if filter.TagSlug != "" {
		where.WriteString(fmt.Sprintf(`
		AND EXISTS (
			SELECT 1 FROM blog.posttag pt
			JOIN blog.tag t ON t.id = pt.tagid
			WHERE pt.postid = p.id AND t.slug = $%d)`, argID))
		args = append(args, filter.TagSlug)
		argID++
	}

	// Search Query Filtering
	if search := strings.TrimSpace(filter.Search); search != "" {
		where.WriteString(fmt.Sprintf(" AND (p.title ILIKE $%d OR p.content ILIKE $%d OR p.excerpt ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+escapeLike(search)+"%")
		argID++
	}

	return repository.listPage(context, where.String(), " ORDER BY p.publishedat DESC, p.id DESC", args, argID, limit, offset)
}

// ListAll returns every post regardless of state, newest createdAt first.
func (repository *postRepository) ListAll(context context.Context, filter AdminFilter, limit, offset int) ([]*Post, int, error) {
	var where strings.Builder
	var args []any
	argID := 1

	if filter.Published != nil {
		where.WriteString(fmt.Sprintf(" WHERE p.published = $%d", argID))
		args = append(args, *filter.Published)
		argID++
	}

	return repository.listPage(context, where.String(), " ORDER BY p.createdat DESC, p.id DESC", args, argID, limit, offset)
}

// listPage runs a windowed page query. When the page is empty but the offset
// is not, the window count is unavailable and a plain COUNT fills it in.
func (repository *postRepository) listPage(context context.Context, where, orderBy string, args []any, argID, limit, offset int) ([]*Post, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(postSelect)
	queryBuilder.WriteString(", COUNT(*) OVER() AS total_count")
	queryBuilder.WriteString(postFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(orderBy)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))

	pageArgs := append(append([]any{}, args...), limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres: failed to list posts: %w", err), "Post")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	total := 0

	for rows.Next() {
		post, err := scanPost(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres: failed to iterate posts: %w", err), "Post")
	}

	if len(posts) == 0 && offset > 0 {
		countQuery := "SELECT COUNT(*)" + postFrom + where
		if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("postgres: failed to count posts: %w", err), "Post")
		}
	}

	return posts, total, nil
}

/*
ListRelated returns Live posts sharing a category or tag with the source.

Description: The source post is excluded. Results are newest first and capped
at limit. An empty id list on one side simply never matches on that side.
*/
func (repository *postRepository) ListRelated(context context.Context, postID string, categoryIDs, tagIDs []string, now time.Time, limit int) ([]*Post, error) {
	query := postSelect + postFrom + `
		WHERE p.id <> $1
		  AND p.published AND p.publishedat <= $2
		  AND (
			EXISTS (SELECT 1 FROM blog.postcategory pc WHERE pc.postid = p.id AND pc.categoryid = ANY($3::uuid[]))
			OR EXISTS (SELECT 1 FROM blog.posttag pt WHERE pt.postid = p.id AND pt.tagid = ANY($4::uuid[]))
		  )
		ORDER BY p.publishedat DESC, p.id DESC
		LIMIT $5`

	rows, err := repository.pool.Query(context, query, postID, now, nonNil(categoryIDs), nonNil(tagIDs), limit)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: failed to list related posts: %w", err), "Post")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows, nil)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: failed to iterate related posts: %w", err), "Post")
	}

	return posts, nil
}

// # Lookups

// FindByID returns the hydrated post, or NotFound.
func (repository *postRepository) FindByID(context context.Context, id string) (*Post, error) {
	return repository.findOne(context, "p.id", id)
}

// FindBySlug returns the hydrated post, or NotFound.
func (repository *postRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	return repository.findOne(context, "p.slug", slug)
}

func (repository *postRepository) findOne(context context.Context, column, value string) (*Post, error) {
	query := postSelect + postFrom + " WHERE " + column + " = $1"

	post, err := scanPost(repository.pool.QueryRow(context, query, value), nil)
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}
	return post, nil
}

// # Mutations

/*
Create persists a new post and its junction links.

Description: Executes inside one transaction, so a failing category or tag
link (unknown id) rolls back the post row too. The unique slug constraint is
the final arbiter between concurrent creators; the loser gets Conflict.
*/
func (repository *postRepository) Create(context context.Context, post *Post, categoryIDs, tagIDs []string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to begin transaction: %w", err), "Post")
	}
	defer transaction.Rollback(context)

	const query = `
		INSERT INTO blog.post (
			id, title, slug, content, excerpt, featuredimage, published, publishedat,
			views, readingtime, authorid, authorname, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11, $12, $12)`

	now := time.Now().UTC()
	_, err = transaction.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
		post.PublishedAt,
		post.ReadingTime,
		post.AuthorID,
		post.AuthorName,
		now,
	)
	if err != nil {
		return wrapPostWriteError(err)
	}

	if err := replaceJunction(context, transaction, schema.BlogPostCategory, post.ID, categoryIDs); err != nil {
		return wrapPostWriteError(err)
	}
	if err := replaceJunction(context, transaction, schema.BlogPostTag, post.ID, tagIDs); err != nil {
		return wrapPostWriteError(err)
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to commit create transaction: %w", err), "Post")
	}

	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// Update writes the mutable columns and, when requested, replaces the junction sets.
func (repository *postRepository) Update(context context.Context, post *Post, categoryIDs, tagIDs *[]string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to begin transaction: %w", err), "Post")
	}
	defer transaction.Rollback(context)

	const query = `
		UPDATE blog.post SET
			title = $2, slug = $3, content = $4, excerpt = $5, featuredimage = $6,
			published = $7, publishedat = $8, readingtime = $9,
			authorid = $10, authorname = $11, updatedat = $12
		WHERE id = $1`

	now := time.Now().UTC()
	tag, err := transaction.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
		post.PublishedAt,
		post.ReadingTime,
		post.AuthorID,
		post.AuthorName,
		now,
	)
	if err != nil {
		return wrapPostWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	if categoryIDs != nil {
		if err := replaceJunction(context, transaction, schema.BlogPostCategory, post.ID, *categoryIDs); err != nil {
			return wrapPostWriteError(err)
		}
	}
	if tagIDs != nil {
		if err := replaceJunction(context, transaction, schema.BlogPostTag, post.ID, *tagIDs); err != nil {
			return wrapPostWriteError(err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to commit update transaction: %w", err), "Post")
	}

	post.UpdatedAt = now
	return nil
}

// Delete hard-deletes the post. Junction rows cascade.
func (repository *postRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM blog.post WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to delete post: %w", err), "Post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// IncrementViews adds delta in one statement, so concurrent readers never lose an update.
func (repository *postRepository) IncrementViews(context context.Context, id string, delta int) error {
	tag, err := repository.pool.Exec(context, `UPDATE blog.post SET views = views + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to increment views: %w", err), "Post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// # Helpers

// replaceJunction clears the owner's links in table and inserts ids in one batch.
func replaceJunction(context context.Context, transaction pgx.Tx, table schema.JunctionTable, ownerID string, ids []string) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Table, table.OwnerID)
	if _, err := transaction.Exec(context, deleteQuery, ownerID); err != nil {
		return fmt.Errorf("postgres: failed to clear %s: %w", table.Table, err)
	}

	if len(ids) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING", table.Table, table.OwnerID, table.TermID)
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(insertQuery, ownerID, id)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to batch insert into %s: %w", table.Table, err)
	}

	return nil
}

func wrapPostWriteError(err error) error {
	if dberr.IsUniqueViolation(err, schema.BlogPost.SlugKey) {
		conflict := apperr.Conflict("A post with this slug already exists")
		conflict.Cause = err
		return conflict
	}
	return dberr.Wrap(err, "Post")
}

// scanPost reads one postSelect row. When total is non-nil the row is
// expected to carry a trailing total_count column.
func scanPost(row pgx.Row, total *int) (*Post, error) {
	post := &Post{}
	var (
		professionalID    *string
		professionalSlug  *string
		professionalFirst *string
		professionalLast  *string
		professionalTitle *string
		categoriesJSON    []byte
		tagsJSON          []byte
	)

	destinations := []any{
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImage,
		&post.Published,
		&post.PublishedAt,
		&post.Views,
		&post.ReadingTime,
		&post.AuthorID,
		&post.AuthorName,
		&post.CreatedAt,
		&post.UpdatedAt,
		&professionalID,
		&professionalSlug,
		&professionalFirst,
		&professionalLast,
		&professionalTitle,
		&categoriesJSON,
		&tagsJSON,
	}
	if total != nil {
		destinations = append(destinations, total)
	}

	if err := row.Scan(destinations...); err != nil {
		return nil, fmt.Errorf("postgres: failed to scan post: %w", err)
	}

	if err := json.Unmarshal(categoriesJSON, &post.Categories); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal categories: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}

	var professional *Professional
	if professionalID != nil {
		professional = &Professional{
			ID:        *professionalID,
			Slug:      deref(professionalSlug),
			FirstName: deref(professionalFirst),
			LastName:  deref(professionalLast),
			Title:     professionalTitle,
		}
	}
	post.Author = ResolveAuthor(post.AuthorID, post.AuthorName, professional)

	return post, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
