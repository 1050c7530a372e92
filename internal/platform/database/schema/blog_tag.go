// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogTagTable represents the 'blog.tag' table
type BlogTagTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
	SlugKey   string
}

// BlogTag is the schema definition for blog.tag
var BlogTag = BlogTagTable{
	Table:     "blog.tag",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
	SlugKey:   "tag_slug_key",
}
