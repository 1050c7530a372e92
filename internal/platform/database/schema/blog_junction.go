// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// JunctionTable describes a many-to-many link table between a post and a taxonomy term.
type JunctionTable struct {
	Table   string
	OwnerID string
	TermID  string
}

// BlogPostCategory is the schema definition for blog.postcategory
var BlogPostCategory = JunctionTable{
	Table:   "blog.postcategory",
	OwnerID: "postid",
	TermID:  "categoryid",
}

// BlogPostTag is the schema definition for blog.posttag
var BlogPostTag = JunctionTable{
	Table:   "blog.posttag",
	OwnerID: "postid",
	TermID:  "tagid",
}
