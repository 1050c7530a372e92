// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table         string
	ID            string
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	Published     string
	PublishedAt   string
	Views         string
	ReadingTime   string
	AuthorID      string
	AuthorName    string
	CreatedAt     string
	UpdatedAt     string
	SlugKey       string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:         "blog.post",
	ID:            "id",
	Title:         "title",
	Slug:          "slug",
	Content:       "content",
	Excerpt:       "excerpt",
	FeaturedImage: "featuredimage",
	Published:     "published",
	PublishedAt:   "publishedat",
	Views:         "views",
	ReadingTime:   "readingtime",
	AuthorID:      "authorid",
	AuthorName:    "authorname",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	SlugKey:       "post_slug_key",
}
