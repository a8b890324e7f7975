// internal/pkg/slugify/slugify.go
package slugify

import (
	"regexp"
	"strings"
)

// translit maps Cyrillic runes to their latin spelling. Category and brand
// names arrive in Russian; URL slugs must stay within [a-z0-9-].
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate derives a URL-safe slug from a display name: lowercase,
// Cyrillic transliterated, non-alphanumeric runs collapsed to "-",
// leading/trailing "-" trimmed.
// Example: "Датчики дыма" -> "datchiki-dyma".
func Generate(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range lowered {
		if mapped, ok := translit[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	slug := nonAlphanumeric.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}
