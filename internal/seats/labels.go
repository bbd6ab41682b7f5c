package seats

import "strings"

// ParseSeatLabels turns free-text administrative input into a clean label
// list. Accepts commas, whitespace, and newlines as separators; trims each
// label and drops duplicates while preserving first-seen order.
func ParseSeatLabels(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(fields))
	labels := make([]string, 0, len(fields))
	for _, field := range fields {
		label := strings.TrimSpace(field)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// mergeLabels combines the structured and free-text label paths into one
// deduplicated list.
func mergeLabels(structured []string, freeText string) []string {
	combined := make([]string, 0, len(structured))
	seen := make(map[string]bool)
	for _, label := range structured {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		combined = append(combined, label)
	}
	for _, label := range ParseSeatLabels(freeText) {
		if seen[label] {
			continue
		}
		seen[label] = true
		combined = append(combined, label)
	}
	return combined
}
