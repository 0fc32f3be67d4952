package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"The Left Hand of Darkness": "the-left-hand-of-darkness",
		"Nguyễn Nhật Ánh":           "nguyen-nhat-anh",
		"Đất Rừng Phương Nam":       "dat-rung-phuong-nam",
		"  Sci-Fi / Fantasy!!  ":    "sci-fi-fantasy",
		"Cien años de soledad":      "cien-anos-de-soledad",
		"???":                       "",
	}

	for input, want := range tests {
		assert.Equal(t, want, GenerateSlug(input), input)
	}
}

func TestGenerateSlug_Capped(t *testing.T) {
	slug := GenerateSlug(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 3, ParsePositiveInt("3", 1))
	assert.Equal(t, 1, ParsePositiveInt("0", 1))
	assert.Equal(t, 20, ParsePositiveInt("abc", 20))
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", ParseStringToUUID("nope").String())
}
