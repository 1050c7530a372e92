// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"math"
	"regexp"
	"strings"

	"github.com/taibuivan/lexora/pkg/slug"
)

const (
	wordsPerMinute   = 200
	excerptMaxLength = 200
	excerptEllipsis  = "..."
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// Slugify derives a URL slug; see [slug.From].
func Slugify(title string) string {
	return slug.From(title)
}

// ReadingTime estimates minutes to read content at 200 words per minute,
// never less than one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	return max(1, minutes)
}

// GenerateExcerpt strips markup from content and truncates it to 200
// characters, appending "..." when truncated.
func GenerateExcerpt(content string) string {
	plain := htmlTagRegex.ReplaceAllString(content, "")
	plain = strings.ReplaceAll(plain, "\n", " ")

	runes := []rune(plain)
	if len(runes) <= excerptMaxLength {
		return plain
	}
	return strings.TrimSpace(string(runes[:excerptMaxLength])) + excerptEllipsis
}
