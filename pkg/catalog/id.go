package catalog

import "strings"

// setSeparator splits a provider-native card ID into its set prefix and the
// card's position within the set, e.g. "swsh3-136" -> "swsh3".
const setSeparator = "-"

// DeriveSetID extracts the set identifier embedded in a provider-native card
// ID: the substring before the first separator. Card IDs without a separator
// derive to themselves.
//
// This is a documented convention relied on by the collection layer (owned
// records store only raw card IDs) and is fragile by nature: it holds for
// both supported providers' ID schemes but is not validated against the
// catalog.
func DeriveSetID(cardID string) string {
	if idx := strings.Index(cardID, setSeparator); idx > 0 {
		return cardID[:idx]
	}
	return cardID
}
