package buslinegeo

import "strings"

// BaseName derives the filesystem-safe output base from a route keyword:
// "B1路" -> "B1", "24路" -> "24". Full-width parentheses are normalized.
func BaseName(keyword string) string {
	s := strings.TrimSpace(keyword)
	s = strings.ReplaceAll(s, "（", "(")
	s = strings.ReplaceAll(s, "）", ")")
	return strings.TrimSuffix(s, "路")
}

// DedupKeywords trims, drops empties, and deduplicates preserving order.
func DedupKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
