package utils

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL slug from a title. The same function runs over
// stored titles at lookup time, so there is no persisted slug column to
// drift out of sync.
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)

	lower := strings.ToLower(ascii)

	hyphenated := strings.ReplaceAll(lower, " ", "-")

	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")

	normalized := multiHyphen.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// SlugsEqual compares a requested slug against one derived from a title,
// case-insensitively.
func SlugsEqual(requested, derived string) bool {
	return strings.EqualFold(strings.TrimSpace(requested), derived)
}

// RemoveDiacritics maps common accented Latin characters to their base
// character so titles like "Café Crawl" slug cleanly.
func RemoveDiacritics(input string) string {
	mappings := map[rune]rune{
		'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
		'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
		'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
		'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
		'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
		'ý': 'y', 'ÿ': 'y',
		'ñ': 'n', 'ç': 'c',

		'Á': 'A', 'À': 'A', 'Â': 'A', 'Ä': 'A', 'Ã': 'A', 'Å': 'A',
		'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
		'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
		'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Ö': 'O', 'Õ': 'O',
		'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
		'Ý': 'Y',
		'Ñ': 'N', 'Ç': 'C',
	}

	result := make([]rune, 0, len(input))
	for _, r := range input {
		if replacement, ok := mappings[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}

	return string(result)
}
