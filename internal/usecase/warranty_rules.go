package usecase

import "strings"

// warrantyRule maps a brand or category substring to a warranty-period
// suggestion. Exactly one of brand/category is set per rule.
type warrantyRule struct {
	brand      string
	category   string
	suggestion string
}

// warrantyRules is the fixed suggestion table, checked top to bottom;
// the first matching rule wins. Brand rules come before category rules so a
// recognized manufacturer beats a generic category tier.
var warrantyRules = []warrantyRule{
	{brand: "apple", suggestion: "Apple standard warranty: 1 year limited, extendable with AppleCare+."},
	{brand: "samsung", suggestion: "Samsung standard warranty: 1 year for electronics, 2 years for major appliances."},
	{brand: "sony", suggestion: "Sony standard warranty: 1 year limited on electronics."},
	{brand: "lg", suggestion: "LG standard warranty: 1 year parts and labor, 10 years on direct-drive motors."},
	{brand: "bosch", suggestion: "Bosch standard warranty: 2 years on appliances and power tools."},
	{brand: "dyson", suggestion: "Dyson standard warranty: 2 years on vacuums, 5 years on upright machines."},
	{brand: "dewalt", suggestion: "DeWalt standard warranty: 3 years limited on power tools."},
	{brand: "makita", suggestion: "Makita standard warranty: 1 year on tools, 3 years on batteries and chargers."},
	{category: "furniture", suggestion: "Furniture typically carries a 2-5 year structural warranty from the manufacturer."},
	{category: "mattress", suggestion: "Mattresses typically carry a 10 year limited warranty."},
	{category: "appliance", suggestion: "Major appliances typically carry a 1 year full warranty with longer coverage on sealed parts."},
	{category: "jewelry", suggestion: "Jewelry and watches typically carry a 1-2 year manufacturer warranty on defects."},
	{category: "electronics", suggestion: "Consumer electronics typically carry a 1 year limited manufacturer warranty."},
}

// genericWarrantySuggestion is the fallthrough when no rule matches.
const genericWarrantySuggestion = "Warranty terms vary by manufacturer; check the product documentation or the manufacturer's website."

// SuggestWarranty derives a warranty-period suggestion from the identified
// brand and category. Matching is case-insensitive substring; unmatched input
// falls through to the generic suggestion.
func SuggestWarranty(brand, category string) string {
	brandLower := strings.ToLower(brand)
	categoryLower := strings.ToLower(category)

	for _, rule := range warrantyRules {
		if rule.brand != "" && brandLower != "" && strings.Contains(brandLower, rule.brand) {
			return rule.suggestion
		}
		if rule.category != "" && categoryLower != "" && strings.Contains(categoryLower, rule.category) {
			return rule.suggestion
		}
	}

	return genericWarrantySuggestion
}
