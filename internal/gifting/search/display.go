package search

import (
	"strings"

	"gifting-workers/internal/models"
)

var brandDisplayNames = map[string]string{
	"lululemon":  "Lululemon Athleisure",
	"nike":       "Nike Athletic Gear",
	"adidas":     "Adidas Sportswear",
	"apple":      "Apple Tech & Accessories",
	"sony":       "Sony Audio & Electronics",
	"bose":       "Bose Audio",
	"le creuset": "Le Creuset Cookware",
	"kitchenaid": "KitchenAid Appliances",
	"yeti":       "YETI Drinkware & Coolers",
	"patagonia":  "Patagonia Outdoor Wear",
	"lego":       "LEGO Building Sets",
}

var categoryDisplayNames = map[string]string{
	"kitchen":          "Kitchen & Cooking",
	"fitness":          "Fitness & Yoga",
	"electronics":      "Tech & Electronics",
	"outdoor-gear":     "Outdoor Adventure Gear",
	"books":            "Books & Reading",
	"beauty":           "Beauty & Self-Care",
	"music":            "Music Lovers",
	"sports":           "Sports & Golf",
	"home-and-garden":  "Home & Garden",
	"arts-and-crafts":  "Arts & Crafts",
	"wine-and-spirits": "Wine & Spirits",
	"toys":             "Toys & Games",
	"fashion":          "Fashion & Accessories",
}

// DisplayName picks the user-facing title for a category group. Brand queries
// use the brand table; everything else uses the category table, where athletic
// wear and travel are personalised by recipient and occasion.
func DisplayName(q models.CategoryQuery, ctx *models.ParsedContext) string {
	if ctx != nil && containsString(ctx.DetectedBrands, q.Interest) {
		if name, ok := brandDisplayNames[q.Interest]; ok {
			return name
		}
	}
	return categoryDisplayName(q.Category, ctx)
}

func categoryDisplayName(category string, ctx *models.ParsedContext) string {
	switch category {
	case "athletic-wear":
		if ctx != nil && ctx.Recipient != "" {
			return "Athletic Wear for " + titleCase(ctx.Recipient)
		}
		return "Athletic Wear"
	case "travel":
		if ctx != nil && ctx.Occasion != "" {
			return "Travel Gear for " + titleCase(ctx.Occasion)
		}
		return "Travel Gear"
	}
	if name, ok := categoryDisplayNames[category]; ok {
		return name
	}
	return titleCase(category)
}

// titleCase turns a slug such as "outdoor-gear" into "Outdoor Gear".
func titleCase(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsString(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
