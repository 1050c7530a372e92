// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"

	requestutil "github.com/taibuivan/lexora/internal/platform/request"
	"github.com/taibuivan/lexora/internal/platform/respond"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type tagRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

// createCategory handles POST /api/v1/admin/categories. The existing category
// is returned when the name's slug is already taken.
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var body categoryRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.GetOrCreateCategory(request.Context(), body.Name, body.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

// createTag handles POST /api/v1/admin/tags.
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var body tagRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.GetOrCreateTag(request.Context(), body.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tag)
}
