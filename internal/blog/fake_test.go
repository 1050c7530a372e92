// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taibuivan/lexora/internal/platform/apperr"
)

// memoryStore is an in-memory [PostRepository] and [TaxonomyRepository]
// sharing one lock, so post counts and links stay consistent.
type memoryStore struct {
	mu         sync.Mutex
	posts      map[string]*Post
	categories map[string]*Category
	tags       map[string]*Tag

	// loseNextCreate makes the next taxonomy insert behave as if a
	// concurrent caller committed the same slug first.
	loseNextCreate bool

	listPublishedCalls int
	incrementErr       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		posts:      map[string]*Post{},
		categories: map[string]*Category{},
		tags:       map[string]*Tag{},
	}
}

func clonePost(post *Post) *Post {
	copied := *post
	copied.Categories = slices.Clone(post.Categories)
	copied.Tags = slices.Clone(post.Tags)
	copied.Author = ResolveAuthor(copied.AuthorID, copied.AuthorName, nil)
	if copied.Categories == nil {
		copied.Categories = []Category{}
	}
	if copied.Tags == nil {
		copied.Tags = []Tag{}
	}
	return &copied
}

func (store *memoryStore) page(posts []*Post, limit, offset int) ([]*Post, int) {
	total := len(posts)
	if offset >= total {
		return []*Post{}, total
	}
	end := min(offset+limit, total)
	out := make([]*Post, 0, end-offset)
	for _, post := range posts[offset:end] {
		out = append(out, clonePost(post))
	}
	return out, total
}

func hasCategory(post *Post, slug string) bool {
	return slices.ContainsFunc(post.Categories, func(category Category) bool { return category.Slug == slug })
}

func hasTag(post *Post, slug string) bool {
	return slices.ContainsFunc(post.Tags, func(tag Tag) bool { return tag.Slug == slug })
}

func (store *memoryStore) ListPublished(_ context.Context, filter PublishedFilter, now time.Time, limit, offset int) ([]*Post, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.listPublishedCalls++

	search := strings.ToLower(filter.Search)
	matched := make([]*Post, 0)
	for _, post := range store.posts {
		if !post.IsVisible(now) {
			continue
		}
		if filter.CategorySlug != "" && !hasCategory(post, filter.CategorySlug) {
			continue
		}
		if filter.TagSlug != "" && !hasTag(post, filter.TagSlug) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(post.Title+" "+post.Content+" "+post.Excerpt), search) {
			continue
		}
		matched = append(matched, post)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PublishedAt.Equal(*matched[j].PublishedAt) {
			return matched[i].PublishedAt.After(*matched[j].PublishedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	posts, total := store.page(matched, limit, offset)
	return posts, total, nil
}

func (store *memoryStore) ListAll(_ context.Context, filter AdminFilter, limit, offset int) ([]*Post, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := make([]*Post, 0)
	for _, post := range store.posts {
		if filter.Published != nil && post.Published != *filter.Published {
			continue
		}
		matched = append(matched, post)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	posts, total := store.page(matched, limit, offset)
	return posts, total, nil
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*Post, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	post, ok := store.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	return clonePost(post), nil
}

func (store *memoryStore) FindBySlug(_ context.Context, slug string) (*Post, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, post := range store.posts {
		if post.Slug == slug {
			return clonePost(post), nil
		}
	}
	return nil, apperr.NotFound("Post")
}

func (store *memoryStore) ListRelated(_ context.Context, postID string, categoryIDs, tagIDs []string, now time.Time, limit int) ([]*Post, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := make([]*Post, 0)
	for _, post := range store.posts {
		if post.ID == postID || !post.IsVisible(now) {
			continue
		}
		shares := slices.ContainsFunc(post.CategoryIDs(), func(id string) bool { return slices.Contains(categoryIDs, id) }) ||
			slices.ContainsFunc(post.TagIDs(), func(id string) bool { return slices.Contains(tagIDs, id) })
		if shares {
			matched = append(matched, post)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PublishedAt.After(*matched[j].PublishedAt) })

	posts, _ := store.page(matched, limit, 0)
	return posts, nil
}

// link resolves ids to terms, failing like a foreign key violation.
func (store *memoryStore) link(categoryIDs, tagIDs []string) ([]Category, []Tag, error) {
	categories := make([]Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		found := false
		for _, category := range store.categories {
			if category.ID == id {
				categories = append(categories, *category)
				found = true
			}
		}
		if !found {
			return nil, nil, apperr.ValidationError("Referenced record does not exist")
		}
	}

	tags := make([]Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		found := false
		for _, tag := range store.tags {
			if tag.ID == id {
				tags = append(tags, *tag)
				found = true
			}
		}
		if !found {
			return nil, nil, apperr.ValidationError("Referenced record does not exist")
		}
	}
	return categories, tags, nil
}

func (store *memoryStore) slugTaken(slug, ownerID string) bool {
	for _, post := range store.posts {
		if post.Slug == slug && post.ID != ownerID {
			return true
		}
	}
	return false
}

func (store *memoryStore) Create(_ context.Context, post *Post, categoryIDs, tagIDs []string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.slugTaken(post.Slug, post.ID) {
		return apperr.Conflict("A post with this slug already exists")
	}
	categories, tags, err := store.link(categoryIDs, tagIDs)
	if err != nil {
		return err
	}

	stored := clonePost(post)
	stored.Categories, stored.Tags = categories, tags
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	store.posts[post.ID] = stored
	return nil
}

func (store *memoryStore) Update(_ context.Context, post *Post, categoryIDs, tagIDs *[]string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	existing, ok := store.posts[post.ID]
	if !ok {
		return apperr.NotFound("Post")
	}
	if store.slugTaken(post.Slug, post.ID) {
		return apperr.Conflict("A post with this slug already exists")
	}

	stored := clonePost(post)
	stored.Categories, stored.Tags = existing.Categories, existing.Tags
	stored.Views = existing.Views
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()

	if categoryIDs != nil {
		categories, _, err := store.link(*categoryIDs, nil)
		if err != nil {
			return err
		}
		stored.Categories = categories
	}
	if tagIDs != nil {
		_, tags, err := store.link(nil, *tagIDs)
		if err != nil {
			return err
		}
		stored.Tags = tags
	}

	store.posts[post.ID] = stored
	return nil
}

func (store *memoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(store.posts, id)
	return nil
}

func (store *memoryStore) IncrementViews(_ context.Context, id string, delta int) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.incrementErr != nil {
		return store.incrementErr
	}
	post, ok := store.posts[id]
	if !ok {
		return apperr.NotFound("Post")
	}
	post.Views += int64(delta)
	return nil
}

func (store *memoryStore) FindCategoryBySlug(_ context.Context, slug string) (*Category, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	category, ok := store.categories[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	copied := *category
	return &copied, nil
}

func (store *memoryStore) CreateCategory(_ context.Context, category *Category) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.loseNextCreate {
		store.loseNextCreate = false
		store.categories[category.Slug] = &Category{ID: "winner-" + category.Slug, Name: category.Name, Slug: category.Slug}
		return apperr.Conflict("A category with this slug already exists")
	}
	if _, ok := store.categories[category.Slug]; ok {
		return apperr.Conflict("A category with this slug already exists")
	}
	copied := *category
	store.categories[category.Slug] = &copied
	return nil
}

func (store *memoryStore) ListCategories(context.Context) ([]*CategorySummary, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	summaries := make([]*CategorySummary, 0, len(store.categories))
	for _, category := range store.categories {
		summary := &CategorySummary{Category: *category}
		for _, post := range store.posts {
			if hasCategory(post, category.Slug) {
				summary.PostCount++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (store *memoryStore) FindTagBySlug(_ context.Context, slug string) (*Tag, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	tag, ok := store.tags[slug]
	if !ok {
		return nil, apperr.NotFound("Tag")
	}
	copied := *tag
	return &copied, nil
}

func (store *memoryStore) CreateTag(_ context.Context, tag *Tag) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.loseNextCreate {
		store.loseNextCreate = false
		store.tags[tag.Slug] = &Tag{ID: "winner-" + tag.Slug, Name: tag.Name, Slug: tag.Slug}
		return apperr.Conflict("A tag with this slug already exists")
	}
	if _, ok := store.tags[tag.Slug]; ok {
		return apperr.Conflict("A tag with this slug already exists")
	}
	copied := *tag
	store.tags[tag.Slug] = &copied
	return nil
}

func (store *memoryStore) ListTags(context.Context) ([]*TagSummary, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	summaries := make([]*TagSummary, 0, len(store.tags))
	for _, tag := range store.tags {
		summary := &TagSummary{Tag: *tag}
		for _, post := range store.posts {
			if hasTag(post, tag.Slug) {
				summary.PostCount++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (store *memoryStore) views(id string) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.posts[id].Views
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestService wires a service over a fresh store with a fixed clock.
func newTestService(t *testing.T, options Options) (*Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	service := NewService(store, store, options, discardLogger())
	service.now = func() time.Time { return testNow }
	return service, store
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
