package chat

import (
	"regexp"
	"strings"
)

// Entity keys used in the extracted-entities map.
const (
	EntityOrderID     = "order_id"
	EntityProductName = "product_name"
)

// orderIDPattern matches "order 12345" or "order id 12345", case-insensitive.
var orderIDPattern = regexp.MustCompile(`(?i)order\s+(?:id\s+)?(\d+)`)

// stockMarkers are the inquiry words that terminate a product name in
// utterances like "blue denim jacket stock".
var stockMarkers = map[string]bool{
	"stock":     true,
	"inventory": true,
	"left":      true,
	"available": true,
}

// ExtractOrderID pulls the first order id out of the text.
// Absence is a normal outcome, not an error.
func ExtractOrderID(text string) (string, bool) {
	m := orderIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractProductFragment returns the words preceding the first stock
// marker, e.g. "how much blue denim jacket stock" yields everything up
// to "stock". A marker at position 0 or no marker yields no fragment.
func ExtractProductFragment(text string) (string, bool) {
	words := strings.Fields(text)
	for i, w := range words {
		if stockMarkers[strings.ToLower(w)] {
			if i == 0 {
				return "", false
			}
			return strings.Join(words[:i], " "), true
		}
	}
	return "", false
}

// ExtractEntities runs all extractors over the text and collects the
// entities that are present.
func ExtractEntities(text string) map[string]string {
	entities := make(map[string]string)
	if id, ok := ExtractOrderID(text); ok {
		entities[EntityOrderID] = id
	}
	if fragment, ok := ExtractProductFragment(text); ok {
		entities[EntityProductName] = fragment
	}
	return entities
}
