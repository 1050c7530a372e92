// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lexora/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, slice.Map([]string{"a", "b"}, strings.ToUpper))

	empty := slice.Map[string, int](nil, func(string) int { return 0 })
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
