package chat

import "strings"

// Intent is the closed-set classification of a user utterance's purpose.
type Intent string

const (
	IntentTopSoldProducts Intent = "top_sold_products"
	IntentOrderStatus     Intent = "order_status"
	IntentProductStock    Intent = "product_stock"
	IntentProductSearch   Intent = "product_search"
	IntentGeneralInfo     Intent = "general_info"
)

// rule is one entry of the intent priority chain. A rule matches when its
// predicate holds and, if requires is set, the named entity was extracted.
// Rules are evaluated in order; the first match wins.
type rule struct {
	intent   Intent
	match    func(lower string) bool
	requires string
}

// rules is the ordered intent rule chain. Order matters: "top sold"
// outranks "order status", which outranks stock inquiries, which outrank
// generic product search. The entity preconditions on order_status and
// product_stock mean those rules fall through when no id or product
// fragment is present in the text.
var rules = []rule{
	{intent: IntentTopSoldProducts, match: containsAll("top", "sold")},
	{intent: IntentOrderStatus, match: containsAll("order", "status"), requires: EntityOrderID},
	{intent: IntentProductStock, match: containsAny("stock", "inventory", "left"), requires: EntityProductName},
	{intent: IntentProductSearch, match: containsAny("product", "item")},
}

// Classify assigns exactly one intent to the given utterance and returns
// it together with the entities extracted from the text. It is total:
// every input maps to an intent, with IntentGeneralInfo as the default.
func Classify(text string) (Intent, map[string]string) {
	lower := strings.ToLower(text)
	entities := ExtractEntities(text)

	for _, r := range rules {
		if !r.match(lower) {
			continue
		}
		if r.requires != "" {
			if _, ok := entities[r.requires]; !ok {
				continue
			}
		}
		return r.intent, entities
	}
	return IntentGeneralInfo, entities
}

func containsAll(words ...string) func(string) bool {
	return func(lower string) bool {
		for _, w := range words {
			if !strings.Contains(lower, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(lower string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}
