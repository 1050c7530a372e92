// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/cache"
	"github.com/taibuivan/lexora/pkg/pagination"
	"github.com/taibuivan/lexora/pkg/pointer"
	"github.com/taibuivan/lexora/pkg/uuid"
)

func mustCreate(t *testing.T, service *Service, input CreatePostInput) *Post {
	t.Helper()
	if input.Content == "" {
		input.Content = "<p>Body of " + input.Title + "</p>"
	}
	post, err := service.CreatePost(context.Background(), input)
	require.NoError(t, err)
	return post
}

// # CreatePost

func TestCreatePost_Derivations(t *testing.T) {
	service, _ := newTestService(t, Options{})

	content := "<p>" + strings.TrimSpace(strings.Repeat("word ", 450)) + "</p>"
	post := mustCreate(t, service, CreatePostInput{Title: "  Hello, World! ", Content: content})

	assert.Equal(t, "Hello, World!", post.Title)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, 3, post.ReadingTime)
	assert.Equal(t, GenerateExcerpt(content), post.Excerpt)
	assert.False(t, post.Published)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, AuthorUnknown, post.Author.Kind)
	assert.Empty(t, post.Categories)
}

func TestCreatePost_ExplicitSlugIsNormalised(t *testing.T) {
	service, _ := newTestService(t, Options{})

	post := mustCreate(t, service, CreatePostInput{Title: "Anything", Slug: pointer.To("  My Custom Slug ")})
	assert.Equal(t, "my-custom-slug", post.Slug)

	// A blank slug falls back to the title.
	post = mustCreate(t, service, CreatePostInput{Title: "From Title", Slug: pointer.To("   ")})
	assert.Equal(t, "from-title", post.Slug)
}

func TestCreatePost_PublishedAt(t *testing.T) {
	service, _ := newTestService(t, Options{})

	live := mustCreate(t, service, CreatePostInput{Title: "Live", Published: true})
	require.NotNil(t, live.PublishedAt)
	assert.Equal(t, testNow, *live.PublishedAt)

	scheduledAt := testNow.Add(48 * time.Hour)
	scheduled := mustCreate(t, service, CreatePostInput{Title: "Scheduled", Published: true, PublishedAt: &scheduledAt})
	require.NotNil(t, scheduled.PublishedAt)
	assert.Equal(t, scheduledAt, *scheduled.PublishedAt)

	// A draft never carries a publication date, even when one is supplied.
	draft := mustCreate(t, service, CreatePostInput{Title: "Draft", PublishedAt: &scheduledAt})
	assert.Nil(t, draft.PublishedAt)
}

func TestCreatePost_Author(t *testing.T) {
	service, _ := newTestService(t, Options{})

	post := mustCreate(t, service, CreatePostInput{Title: "Blank", AuthorID: pointer.To("  "), AuthorName: pointer.To("Guest Writer")})
	assert.Nil(t, post.AuthorID)
	assert.Equal(t, AuthorFreeText, post.Author.Kind)
	assert.Equal(t, "Guest Writer", post.Author.DisplayName())
}

func TestCreatePost_Validation(t *testing.T) {
	service, store := newTestService(t, Options{})

	tests := []struct {
		name  string
		input CreatePostInput
		field string
	}{
		{"missing title", CreatePostInput{Content: "body"}, FieldTitle},
		{"missing content", CreatePostInput{Title: "Title"}, FieldContent},
		{"title too long", CreatePostInput{Title: strings.Repeat("t", 301), Content: "body"}, FieldTitle},
		{"title without slug characters", CreatePostInput{Title: "!!!", Content: "body"}, FieldSlug},
		{"bad author id", CreatePostInput{Title: "T", Content: "body", AuthorID: pointer.To("nope")}, FieldAuthorID},
		{"bad category id", CreatePostInput{Title: "T", Content: "body", CategoryIDs: []string{"nope"}}, FieldCategoryIDs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreatePost(context.Background(), tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)

			fields := make([]string, 0, len(appErr.Details))
			for _, detail := range appErr.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	assert.Empty(t, store.posts)
}

func TestCreatePost_UnknownCategory(t *testing.T) {
	service, _ := newTestService(t, Options{})

	_, err := service.CreatePost(context.Background(), CreatePostInput{
		Title: "Linked", Content: "body", CategoryIDs: []string{uuid.New()},
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCreatePost_DuplicateSlugConflicts(t *testing.T) {
	service, _ := newTestService(t, Options{})

	mustCreate(t, service, CreatePostInput{Title: "Same Title"})
	_, err := service.CreatePost(context.Background(), CreatePostInput{Title: "Same  title", Content: "body"})
	assert.True(t, apperr.IsConflict(err))
}

// # UpdatePost

func TestUpdatePost_ContentChangeOverwritesCustomExcerpt(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	post := mustCreate(t, service, CreatePostInput{Title: "Excerpt", Excerpt: pointer.To("Hand written summary")})
	require.Equal(t, "Hand written summary", post.Excerpt)

	newContent := "<p>" + strings.TrimSpace(strings.Repeat("fresh ", 250)) + "</p>"
	updated, err := service.UpdatePost(ctx, post.ID, UpdatePostInput{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, GenerateExcerpt(newContent), updated.Excerpt)
	assert.Equal(t, 2, updated.ReadingTime)

	// Supplying both keeps the supplied excerpt.
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{Content: pointer.To("short"), Excerpt: pointer.To("Kept")})
	require.NoError(t, err)
	assert.Equal(t, "Kept", updated.Excerpt)
	assert.Equal(t, 1, updated.ReadingTime)

	// A title-only patch leaves the excerpt alone.
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{Title: pointer.To("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Kept", updated.Excerpt)
	assert.Equal(t, "excerpt", updated.Slug)
}

func TestUpdatePost_PublishTransitions(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})
	later := testNow.Add(24 * time.Hour)

	post := mustCreate(t, service, CreatePostInput{Title: "Lifecycle"})

	// An explicit date on a post that stays a draft is ignored.
	updated, err := service.UpdatePost(ctx, post.ID, UpdatePostInput{PublishedAt: &later})
	require.NoError(t, err)
	assert.Nil(t, updated.PublishedAt)

	// First publish stamps now.
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{Published: pointer.To(true)})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, testNow, *updated.PublishedAt)

	// Unpublishing keeps the date.
	service.now = func() time.Time { return testNow.Add(time.Hour) }
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{Published: pointer.To(false)})
	require.NoError(t, err)
	assert.False(t, updated.Published)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, testNow, *updated.PublishedAt)

	// Republishing does not restamp.
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{Published: pointer.To(true)})
	require.NoError(t, err)
	assert.Equal(t, testNow, *updated.PublishedAt)

	// An explicit date on a published post reschedules it.
	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{PublishedAt: &later})
	require.NoError(t, err)
	assert.Equal(t, later, *updated.PublishedAt)
	assert.False(t, updated.IsVisible(service.now()))
}

func TestUpdatePost_ReplacesTerms(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	injury, err := service.GetOrCreateCategory(ctx, "Personal Injury", nil)
	require.NoError(t, err)
	news, err := service.GetOrCreateCategory(ctx, "Legal News", nil)
	require.NoError(t, err)
	tips, err := service.GetOrCreateTag(ctx, "Legal Tips")
	require.NoError(t, err)

	post := mustCreate(t, service, CreatePostInput{Title: "Terms", CategoryIDs: []string{injury.ID}, TagIDs: []string{tips.ID}})
	require.Len(t, post.Categories, 1)

	updated, err := service.UpdatePost(ctx, post.ID, UpdatePostInput{CategoryIDs: &[]string{news.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{news.ID}, updated.CategoryIDs())
	assert.Equal(t, []string{tips.ID}, updated.TagIDs(), "tags untouched when not supplied")

	updated, err = service.UpdatePost(ctx, post.ID, UpdatePostInput{TagIDs: &[]string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestUpdatePost_Errors(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	_, err := service.UpdatePost(ctx, uuid.New(), UpdatePostInput{Title: pointer.To("x")})
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.UpdatePost(ctx, "not-a-uuid", UpdatePostInput{})
	assert.True(t, apperr.IsNotFound(err))

	first := mustCreate(t, service, CreatePostInput{Title: "First"})
	second := mustCreate(t, service, CreatePostInput{Title: "Second"})

	_, err = service.UpdatePost(ctx, second.ID, UpdatePostInput{Slug: pointer.To(first.Slug)})
	assert.True(t, apperr.IsConflict(err))

	_, err = service.UpdatePost(ctx, second.ID, UpdatePostInput{Title: pointer.To("  ")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Re-saving a post under its own slug is not a conflict.
	_, err = service.UpdatePost(ctx, first.ID, UpdatePostInput{Slug: pointer.To(first.Slug)})
	assert.NoError(t, err)
}

// # DeletePost

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	post := mustCreate(t, service, CreatePostInput{Title: "Doomed"})
	require.NoError(t, service.DeletePost(ctx, post.ID))

	assert.True(t, apperr.IsNotFound(service.DeletePost(ctx, post.ID)))

	found, err := service.GetPostBySlug(ctx, post.Slug)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

// # Reads

func TestGetPublishedPosts_OnlyLive(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	older := testNow.Add(-48 * time.Hour)
	future := testNow.Add(time.Hour)

	mustCreate(t, service, CreatePostInput{Title: "Draft"})
	mustCreate(t, service, CreatePostInput{Title: "Scheduled", Published: true, PublishedAt: &future})
	oldPost := mustCreate(t, service, CreatePostInput{Title: "Old News", Published: true, PublishedAt: &older})
	newPost := mustCreate(t, service, CreatePostInput{Title: "Fresh News", Published: true})

	page, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, newPost.ID, page.Posts[0].ID)
	assert.Equal(t, oldPost.ID, page.Posts[1].ID)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: DefaultPublicLimit, Total: 2, TotalPages: 1, HasMore: false}, page.Meta)

	// The scheduled post goes live once the clock passes it.
	service.now = func() time.Time { return future }
	page, err = service.GetPublishedPosts(ctx, pagination.Params{Page: 1, Limit: 1}, PublishedFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.Total)
	assert.True(t, page.Meta.HasMore)
	assert.Equal(t, "Scheduled", page.Posts[0].Title)
}

func TestGetPublishedPosts_PageBeyondEndIsEmpty(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		mustCreate(t, service, CreatePostInput{Title: title, Published: true})
	}

	page, err := service.GetPublishedPosts(ctx, pagination.Params{Page: 100000000000000000, Limit: 100}, PublishedFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 5, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasMore)
}

func TestGetPublishedPosts_Filters(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	injury, err := service.GetOrCreateCategory(ctx, "Personal Injury", nil)
	require.NoError(t, err)
	insurance, err := service.GetOrCreateTag(ctx, "Insurance")
	require.NoError(t, err)

	mustCreate(t, service, CreatePostInput{Title: "Slip and fall", Published: true, CategoryIDs: []string{injury.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Claims primer", Published: true, TagIDs: []string{insurance.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Office update", Content: "We moved offices", Published: true})

	byCategory, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{CategorySlug: "personal-injury"})
	require.NoError(t, err)
	require.Len(t, byCategory.Posts, 1)
	assert.Equal(t, "Slip and fall", byCategory.Posts[0].Title)

	byTag, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{TagSlug: "insurance"})
	require.NoError(t, err)
	require.Len(t, byTag.Posts, 1)
	assert.Equal(t, "Claims primer", byTag.Posts[0].Title)

	bySearch, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{Search: "  MOVED "})
	require.NoError(t, err)
	require.Len(t, bySearch.Posts, 1)
	assert.Equal(t, "Office update", bySearch.Posts[0].Title)
}

func TestGetAllPosts_IncludesEveryState(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	future := testNow.Add(time.Hour)
	mustCreate(t, service, CreatePostInput{Title: "Draft"})
	mustCreate(t, service, CreatePostInput{Title: "Scheduled", Published: true, PublishedAt: &future})
	mustCreate(t, service, CreatePostInput{Title: "Live", Published: true})

	page, err := service.GetAllPosts(ctx, pagination.Params{}, AdminFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, DefaultAdminLimit, page.Meta.Limit)

	drafts, err := service.GetAllPosts(ctx, pagination.Params{}, AdminFilter{Published: pointer.To(false)})
	require.NoError(t, err)
	require.Len(t, drafts.Posts, 1)
	assert.Equal(t, "Draft", drafts.Posts[0].Title)
}

func TestGetPostByID(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	post := mustCreate(t, service, CreatePostInput{Title: "Findable"})
	found, err := service.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, found.Slug)

	_, err = service.GetPostByID(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetRelatedPosts(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	injury, _ := service.GetOrCreateCategory(ctx, "Personal Injury", nil)
	news, _ := service.GetOrCreateCategory(ctx, "Legal News", nil)
	tips, _ := service.GetOrCreateTag(ctx, "Legal Tips")
	future := testNow.Add(time.Hour)

	source := mustCreate(t, service, CreatePostInput{Title: "Source", Published: true, CategoryIDs: []string{injury.ID}, TagIDs: []string{tips.ID}})
	sameCategory := mustCreate(t, service, CreatePostInput{Title: "Same category", Published: true, CategoryIDs: []string{injury.ID}})
	sameTag := mustCreate(t, service, CreatePostInput{Title: "Same tag", Published: true, TagIDs: []string{tips.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Draft sibling", CategoryIDs: []string{injury.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Scheduled sibling", Published: true, PublishedAt: &future, CategoryIDs: []string{injury.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Unrelated", Published: true, CategoryIDs: []string{news.ID}})
	bare := mustCreate(t, service, CreatePostInput{Title: "Bare", Published: true})

	related, err := service.GetRelatedPosts(ctx, source.ID, 0)
	require.NoError(t, err)
	ids := []string{}
	for _, post := range related {
		ids = append(ids, post.ID)
	}
	assert.ElementsMatch(t, []string{sameCategory.ID, sameTag.ID}, ids)

	limited, err := service.GetRelatedPosts(ctx, source.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := service.GetRelatedPosts(ctx, bare.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, none)

	missing, err := service.GetRelatedPosts(ctx, uuid.New(), 3)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

// # View Counting

func TestIncrementViews_Concurrent(t *testing.T) {
	service, store := newTestService(t, Options{})
	post := mustCreate(t, service, CreatePostInput{Title: "Popular", Published: true})

	// A cancelled request context must not abort the detached update.
	requestCtx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		service.IncrementViews(requestCtx, post.ID)
	}

	waitCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, service.Wait(waitCtx))
	assert.Equal(t, int64(3), store.views(post.ID))
}

func TestIncrementViews_FailureIsSwallowed(t *testing.T) {
	service, store := newTestService(t, Options{})
	post := mustCreate(t, service, CreatePostInput{Title: "Flaky"})
	store.incrementErr = errors.New("connection reset")

	service.IncrementViews(context.Background(), post.ID)
	require.NoError(t, service.Wait(context.Background()))
	assert.Zero(t, store.views(post.ID))
}

// # Taxonomy

func TestGetOrCreateCategory_Idempotent(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, Options{})

	first, err := service.GetOrCreateCategory(ctx, "Personal Injury", pointer.To("Accidents and claims"))
	require.NoError(t, err)
	assert.Equal(t, "personal-injury", first.Slug)

	second, err := service.GetOrCreateCategory(ctx, "  personal   injury ", pointer.To("Different"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Description)
	assert.Equal(t, "Accidents and claims", *second.Description, "existing rows are never updated")
	assert.Len(t, store.categories, 1)
}

func TestGetOrCreate_LoserReadsWinner(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t, Options{})

	store.loseNextCreate = true
	category, err := service.GetOrCreateCategory(ctx, "Case Studies", nil)
	require.NoError(t, err)
	assert.Equal(t, "winner-case-studies", category.ID)

	store.loseNextCreate = true
	tag, err := service.GetOrCreateTag(ctx, "Insurance")
	require.NoError(t, err)
	assert.Equal(t, "winner-insurance", tag.ID)
}

func TestGetOrCreate_Validation(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	_, err := service.GetOrCreateCategory(ctx, "   ", nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.GetOrCreateTag(ctx, "???")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.GetOrCreateTag(ctx, strings.Repeat("x", 101))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestListCategories_PostCounts(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, Options{})

	injury, _ := service.GetOrCreateCategory(ctx, "Personal Injury", nil)
	_, _ = service.GetOrCreateCategory(ctx, "Case Studies", nil)
	mustCreate(t, service, CreatePostInput{Title: "One", CategoryIDs: []string{injury.ID}})
	mustCreate(t, service, CreatePostInput{Title: "Two", Published: true, CategoryIDs: []string{injury.ID}})

	categories, err := service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Case Studies", categories[0].Name)
	assert.Equal(t, 0, categories[0].PostCount)
	assert.Equal(t, 2, categories[1].PostCount)
}

// # Listing Cache

func TestListingCache_InvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	service, posts := newTestService(t, Options{Cache: store, CacheTTL: time.Minute})

	empty, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)

	_, err = service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, posts.listPublishedCalls, "second read is served from cache")

	created := mustCreate(t, service, CreatePostInput{Title: "Cached", Published: true})

	page, err := service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, created.ID, page.Posts[0].ID)
	assert.Equal(t, "Anonymous", page.Posts[0].Author.DisplayName())
	assert.Equal(t, 2, posts.listPublishedCalls)

	// A different filter is a different entry.
	_, err = service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{TagSlug: "insurance"})
	require.NoError(t, err)
	assert.Equal(t, 3, posts.listPublishedCalls)

	require.NoError(t, service.DeletePost(ctx, created.ID))
	page, err = service.GetPublishedPosts(ctx, pagination.Params{}, PublishedFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
}
