// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lexora/internal/platform/middleware"
)

// Handler implements the blog's public and admin endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, read-only blog API.
//
// # Endpoints
//   - GET /posts                : Live posts (page, limit, category, tag, q).
//   - GET /posts/{slug}         : One Live post; counts a view.
//   - GET /posts/{slug}/related : Live posts sharing a category or tag.
//   - GET /categories           : Categories with post counts.
//   - GET /tags                 : Tags with post counts.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/posts", handler.listPublishedPosts)
	router.Get("/posts/{slug}", handler.getPublishedPost)
	router.Get("/posts/{slug}/related", handler.listRelatedPosts)
	router.Get("/categories", handler.listCategories)
	router.Get("/tags", handler.listTags)

	return router
}

// AdminRoutes registers the authoring API on router. Every route requires an
// admin session.
//
// # Endpoints
//   - GET    /posts           : Every post (page, limit, published).
//   - GET    /posts/{id}      : One post in any state.
//   - POST   /posts           : Create a post.
//   - PATCH  /posts/{id}      : Partial update (PUT is accepted as an alias).
//   - DELETE /posts/{id}      : Delete a post.
//   - POST   /categories      : Get-or-create a category.
//   - POST   /tags            : Get-or-create a tag.
func (handler *Handler) AdminRoutes(router chi.Router) {
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAdmin)

		router.Route("/posts", func(router chi.Router) {
			router.Get("/", handler.listAllPosts)
			router.Post("/", handler.createPost)
			router.Get("/{id}", handler.getPost)
			router.Patch("/{id}", handler.updatePost)
			router.Put("/{id}", handler.updatePost)
			router.Delete("/{id}", handler.deletePost)
		})

		router.Post("/categories", handler.createCategory)
		router.Post("/tags", handler.createTag)
	})
}
