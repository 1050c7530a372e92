// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"
	"time"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	requestutil "github.com/taibuivan/lexora/internal/platform/request"
	"github.com/taibuivan/lexora/internal/platform/respond"
	"github.com/taibuivan/lexora/pkg/pagination"
	"github.com/taibuivan/lexora/pkg/pointer"
)

// # Public Endpoints

// listPublishedPosts handles GET /api/v1/blog/posts.
func (handler *Handler) listPublishedPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, DefaultPublicLimit)
	filter := PublishedFilter{
		CategorySlug: requestutil.QueryString(request, "category"),
		TagSlug:      requestutil.QueryString(request, "tag"),
		Search:       requestutil.QueryString(request, "q"),
	}

	page, err := handler.service.GetPublishedPosts(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page.Posts, page.Meta)
}

// getPublishedPost handles GET /api/v1/blog/posts/{slug}.
//
// Drafts and scheduled posts are reported as missing. A successful read
// counts one view in the background.
func (handler *Handler) getPublishedPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPostBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if post == nil || !post.IsVisible(handler.service.now()) {
		respond.Error(writer, request, apperr.NotFound("Post"))
		return
	}

	handler.service.IncrementViews(request.Context(), post.ID)
	respond.OK(writer, post)
}

// listRelatedPosts handles GET /api/v1/blog/posts/{slug}/related.
func (handler *Handler) listRelatedPosts(writer http.ResponseWriter, request *http.Request) {
	source, err := handler.service.GetPostBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if source == nil {
		respond.OK(writer, []*Post{})
		return
	}

	limit := requestutil.QueryInt(request, "limit", DefaultRelatedLimit)
	posts, err := handler.service.GetRelatedPosts(request.Context(), source.ID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

// # Admin Endpoints

// postRequest is the JSON body of create and update. Every field is optional
// at the transport level; the service enforces what create requires.
type postRequest struct {
	Title         *string    `json:"title"`
	Slug          *string    `json:"slug"`
	Content       *string    `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	FeaturedImage *string    `json:"featuredImage"`
	Published     *bool      `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt"`
	AuthorID      *string    `json:"authorId"`
	AuthorName    *string    `json:"authorName"`
	CategoryIDs   *[]string  `json:"categoryIds"`
	TagIDs        *[]string  `json:"tagIds"`
}

func (body postRequest) createInput() CreatePostInput {
	return CreatePostInput{
		Title:         pointer.Val(body.Title),
		Slug:          body.Slug,
		Content:       pointer.Val(body.Content),
		Excerpt:       body.Excerpt,
		FeaturedImage: body.FeaturedImage,
		Published:     pointer.Val(body.Published),
		PublishedAt:   body.PublishedAt,
		AuthorID:      body.AuthorID,
		AuthorName:    body.AuthorName,
		CategoryIDs:   pointer.Val(body.CategoryIDs),
		TagIDs:        pointer.Val(body.TagIDs),
	}
}

func (body postRequest) updateInput() UpdatePostInput {
	return UpdatePostInput{
		Title:         body.Title,
		Slug:          body.Slug,
		Content:       body.Content,
		Excerpt:       body.Excerpt,
		FeaturedImage: body.FeaturedImage,
		Published:     body.Published,
		PublishedAt:   body.PublishedAt,
		AuthorID:      body.AuthorID,
		AuthorName:    body.AuthorName,
		CategoryIDs:   body.CategoryIDs,
		TagIDs:        body.TagIDs,
	}
}

// listAllPosts handles GET /api/v1/admin/posts.
func (handler *Handler) listAllPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, DefaultAdminLimit)
	filter := AdminFilter{Published: requestutil.QueryBool(request, "published")}

	page, err := handler.service.GetAllPosts(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page.Posts, page.Meta)
}

// getPost handles GET /api/v1/admin/posts/{id}.
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPostByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// createPost handles POST /api/v1/admin/posts.
//
// # Returns
//   - 201 Created with the stored post.
//   - 400 on validation failure, 409 if the slug is taken.
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var body postRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.CreatePost(request.Context(), body.createInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

// updatePost handles PATCH and PUT /api/v1/admin/posts/{id}.
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	var body postRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.UpdatePost(request.Context(), requestutil.Param(request, "id"), body.updateInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// deletePost handles DELETE /api/v1/admin/posts/{id}.
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeletePost(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
