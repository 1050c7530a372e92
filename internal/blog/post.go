// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog defines the firm's blog: posts, their categories and tags, and
the services and handlers that publish them.

Core Responsibility:

  - Authoring: admins create, edit, schedule and delete posts.
  - Discovery: visitors page through live posts, filter by category or tag, and search.
  - Analytics: every public read of a post bumps its view counter.

A post is Draft (unpublished), Scheduled (published with a future publishedAt)
or Live. Scheduled posts become Live at query time; nothing runs in the background.
*/
package blog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taibuivan/lexora/pkg/slice"
)

// # Domain Entities

// Post is a single blog article with its relations hydrated.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featuredImage"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Views         int64      `json:"views"`
	ReadingTime   int        `json:"readingTime"`

	// AuthorID and AuthorName are the two stored author columns; Author is
	// the resolved view of them.
	AuthorID   *string `json:"authorId"`
	AuthorName *string `json:"authorName"`
	Author     Author  `json:"author"`

	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsVisible reports whether the post is Live at now.
func (post *Post) IsVisible(now time.Time) bool {
	return post.Published && post.PublishedAt != nil && !post.PublishedAt.After(now)
}

// CategoryIDs returns the ids of the attached categories.
func (post *Post) CategoryIDs() []string {
	return slice.Map(post.Categories, func(category Category) string { return category.ID })
}

// TagIDs returns the ids of the attached tags.
func (post *Post) TagIDs() []string {
	return slice.Map(post.Tags, func(tag Tag) string { return tag.ID })
}

// Category groups posts by practice topic.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// Tag is a free-form label on posts.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategorySummary is a category with the number of posts filed under it.
type CategorySummary struct {
	Category
	PostCount int `json:"postCount"`
}

// TagSummary is a tag with the number of posts carrying it.
type TagSummary struct {
	Tag
	PostCount int `json:"postCount"`
}

// # Author

// AuthorKind discriminates the [Author] union.
type AuthorKind string

const (
	// AuthorReference points at a professional in the staff directory.
	AuthorReference AuthorKind = "reference"

	// AuthorFreeText is a name typed by the editor.
	AuthorFreeText AuthorKind = "free_text"

	// AuthorUnknown means neither column is set.
	AuthorUnknown AuthorKind = "unknown"
)

// anonymousAuthor is the display name of an [AuthorUnknown] post.
const anonymousAuthor = "Anonymous"

// Professional is the slice of the staff directory a post needs for its byline.
type Professional struct {
	ID        string  `json:"id"`
	Slug      string  `json:"slug"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Title     *string `json:"title,omitempty"`
}

// FullName joins first and last name.
func (professional *Professional) FullName() string {
	return strings.TrimSpace(professional.FirstName + " " + professional.LastName)
}

// Author is the resolved byline of a post.
//
// Exactly one of the variants applies: a reference to a professional (with
// the joined row when available), a free-text name, or nothing.
type Author struct {
	Kind           AuthorKind
	ProfessionalID string
	Professional   *Professional
	Name           string
}

// ResolveAuthor builds the union from the stored columns. A reference wins
// when both columns are set.
func ResolveAuthor(authorID, authorName *string, professional *Professional) Author {
	if authorID != nil && *authorID != "" {
		return Author{Kind: AuthorReference, ProfessionalID: *authorID, Professional: professional}
	}
	if authorName != nil && strings.TrimSpace(*authorName) != "" {
		return Author{Kind: AuthorFreeText, Name: strings.TrimSpace(*authorName)}
	}
	return Author{Kind: AuthorUnknown}
}

// DisplayName is the byline shown to readers.
func (author Author) DisplayName() string {
	switch author.Kind {
	case AuthorReference:
		if author.Professional != nil {
			if name := author.Professional.FullName(); name != "" {
				return name
			}
		}
	case AuthorFreeText:
		if author.Name != "" {
			return author.Name
		}
	}
	return anonymousAuthor
}

type authorJSON struct {
	Kind           AuthorKind    `json:"kind"`
	DisplayName    string        `json:"displayName"`
	ProfessionalID string        `json:"professionalId,omitempty"`
	Professional   *Professional `json:"professional,omitempty"`
	Name           string        `json:"name,omitempty"`
}

// MarshalJSON renders the union with its computed display name.
func (author Author) MarshalJSON() ([]byte, error) {
	kind := author.Kind
	if kind == "" {
		kind = AuthorUnknown
	}
	return json.Marshal(authorJSON{
		Kind:           kind,
		DisplayName:    author.DisplayName(),
		ProfessionalID: author.ProfessionalID,
		Professional:   author.Professional,
		Name:           author.Name,
	})
}

// UnmarshalJSON restores the union; displayName is derived and ignored.
func (author *Author) UnmarshalJSON(data []byte) error {
	var wire authorJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*author = Author{
		Kind:           wire.Kind,
		ProfessionalID: wire.ProfessionalID,
		Professional:   wire.Professional,
		Name:           wire.Name,
	}
	return nil
}

// # Inputs

// CreatePostInput carries an admin's new post. ReadingTime is never accepted.
type CreatePostInput struct {
	Title         string
	Slug          *string
	Content       string
	Excerpt       *string
	FeaturedImage *string
	Published     bool
	PublishedAt   *time.Time
	AuthorID      *string
	AuthorName    *string
	CategoryIDs   []string
	TagIDs        []string
}

// UpdatePostInput is a partial update. A nil field is left unchanged; a
// non-nil CategoryIDs or TagIDs (even empty) replaces the whole set.
type UpdatePostInput struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Published     *bool
	PublishedAt   *time.Time
	AuthorID      *string
	AuthorName    *string
	CategoryIDs   *[]string
	TagIDs        *[]string
}

// PublishedFilter narrows the public listing.
type PublishedFilter struct {
	CategorySlug string
	TagSlug      string
	Search       string
}

// AdminFilter narrows the admin listing.
type AdminFilter struct {
	Published *bool
}

// # Field Identifiers

const (
	FieldTitle         = "title"
	FieldSlug          = "slug"
	FieldContent       = "content"
	FieldExcerpt       = "excerpt"
	FieldFeaturedImage = "featuredImage"
	FieldAuthorID      = "authorId"
	FieldAuthorName    = "authorName"
	FieldCategoryIDs   = "categoryIds"
	FieldTagIDs        = "tagIds"
	FieldName          = "name"
	FieldDescription   = "description"
)
