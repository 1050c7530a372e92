// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates URL slugs for posts, categories and tags.
//
// The same rule is used for every blog entity so that a category requested
// by name ("Personal Injury") always resolves to the same slug
// ("personal-injury").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the maximum slug length in bytes. Slugs are ASCII, so bytes equal characters.
const MaxLength = 100

var (
	// disallowed matches anything that is not a word character, whitespace or hyphen.
	disallowed = regexp.MustCompile(`[^\w\s-]`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-+`)

	// foldAccents decomposes accented letters and drops the combining marks (é -> e).
	foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// From converts an arbitrary string into a URL slug.
//
// # Transformation Pipeline
//
//  1. Fold accents (NFD, drop non-spacing marks).
//  2. Map Unicode whitespace to ASCII space.
//  3. Lowercase and trim.
//  4. Strip everything except [A-Za-z0-9_], whitespace and '-'.
//  5. Replace whitespace runs with '-', then collapse '-' runs.
//  6. Cap at [MaxLength].
//
// From is idempotent: From(From(s)) == From(s).
func From(s string) string {
	result, _, err := transform.String(foldAccents, s)
	if err != nil {
		result = s
	}

	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, result)

	result = strings.TrimSpace(strings.ToLower(result))
	result = disallowed.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
	}

	return result
}
