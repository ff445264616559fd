package utils

import "strings"

// ruMap transliterates Cyrillic letters one at a time; letters without a direct
// Latin equivalent expand to digraphs, hard/soft signs vanish.
var ruMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// SlugFallback is returned whenever slug normalization yields nothing usable.
const SlugFallback = "material"

// Slugify lowercases and transliterates text into a URL-safe token: runs of
// characters outside [a-z0-9] collapse into single hyphens, leading and
// trailing hyphens are trimmed, and an empty result falls back to "material".
func Slugify(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	for _, r := range lowered {
		if mapped, ok := ruMap[r]; ok {
			b.WriteString(mapped)
		} else {
			b.WriteRune(r)
		}
	}

	var out strings.Builder
	lastHyphen := false
	for _, r := range b.String() {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			out.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(out.String(), "-")
	if slug == "" {
		return SlugFallback
	}
	return slug
}

// ParseTags splits a comma separated tag string, trims each entry, drops
// empties, and removes duplicates preserving first-seen order.
func ParseTags(raw string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, item := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(item)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
