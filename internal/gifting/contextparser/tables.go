package contextparser

// BrandEntry maps a lowercase brand name onto a product category.
type BrandEntry struct {
	Name        string
	Category    string
	SearchTerms []string
}

// InterestEntry maps a lowercase interest keyword onto a product category.
type InterestEntry struct {
	Keyword     string
	Category    string
	SearchTerms []string
	Priority    int
}

// BrandPriority is the mapping priority assigned to every detected brand.
const BrandPriority = 1

// Brands is matched by substring against the lowercased message, in order.
var Brands = []BrandEntry{
	{Name: "lululemon", Category: "athletic-wear", SearchTerms: []string{"lululemon athletic wear", "lululemon leggings"}},
	{Name: "nike", Category: "athletic-wear", SearchTerms: []string{"nike athletic wear", "nike sneakers"}},
	{Name: "adidas", Category: "athletic-wear", SearchTerms: []string{"adidas athletic wear", "adidas sneakers"}},
	{Name: "under armour", Category: "athletic-wear", SearchTerms: []string{"under armour athletic wear"}},
	{Name: "apple", Category: "electronics", SearchTerms: []string{"apple accessories", "apple airpods"}},
	{Name: "sony", Category: "electronics", SearchTerms: []string{"sony headphones", "sony electronics"}},
	{Name: "bose", Category: "electronics", SearchTerms: []string{"bose headphones", "bose speakers"}},
	{Name: "le creuset", Category: "kitchen", SearchTerms: []string{"le creuset cookware", "le creuset dutch oven"}},
	{Name: "kitchenaid", Category: "kitchen", SearchTerms: []string{"kitchenaid mixer", "kitchenaid appliances"}},
	{Name: "yeti", Category: "outdoor-gear", SearchTerms: []string{"yeti tumbler", "yeti cooler"}},
	{Name: "patagonia", Category: "outdoor-gear", SearchTerms: []string{"patagonia jacket", "patagonia fleece"}},
	{Name: "lego", Category: "toys", SearchTerms: []string{"lego sets", "lego building kits"}},
	{Name: "sephora", Category: "beauty", SearchTerms: []string{"sephora gift sets", "sephora makeup"}},
	{Name: "kindle", Category: "books", SearchTerms: []string{"kindle e-reader", "kindle accessories"}},
}

// Interests is matched by substring against the lowercased message, in order.
// Keywords are chosen so that none is a substring of another entry's keyword.
var Interests = []InterestEntry{
	{Keyword: "cooking", Category: "kitchen", SearchTerms: []string{"cooking gifts", "kitchen gadgets"}, Priority: 3},
	{Keyword: "baking", Category: "kitchen", SearchTerms: []string{"baking gifts", "baking tools"}, Priority: 3},
	{Keyword: "yoga", Category: "fitness", SearchTerms: []string{"yoga gear", "yoga mat"}, Priority: 2},
	{Keyword: "fitness", Category: "fitness", SearchTerms: []string{"fitness gear", "workout accessories"}, Priority: 2},
	{Keyword: "running", Category: "athletic-wear", SearchTerms: []string{"running gear", "running shoes"}, Priority: 2},
	{Keyword: "golf", Category: "sports", SearchTerms: []string{"golf gifts", "golf accessories"}, Priority: 2},
	{Keyword: "hiking", Category: "outdoor-gear", SearchTerms: []string{"hiking gear", "hiking backpack"}, Priority: 2},
	{Keyword: "camping", Category: "outdoor-gear", SearchTerms: []string{"camping gear", "camping accessories"}, Priority: 2},
	{Keyword: "travel", Category: "travel", SearchTerms: []string{"travel accessories", "travel gear"}, Priority: 2},
	{Keyword: "gaming", Category: "electronics", SearchTerms: []string{"gaming accessories", "gaming headset"}, Priority: 2},
	{Keyword: "tech", Category: "electronics", SearchTerms: []string{"tech gadgets", "smart gadgets"}, Priority: 1},
	{Keyword: "photography", Category: "electronics", SearchTerms: []string{"photography gear", "camera accessories"}, Priority: 2},
	{Keyword: "music", Category: "music", SearchTerms: []string{"music gifts", "headphones"}, Priority: 2},
	{Keyword: "reading", Category: "books", SearchTerms: []string{"book lover gifts", "bestselling books"}, Priority: 2},
	{Keyword: "coffee", Category: "kitchen", SearchTerms: []string{"coffee gifts", "coffee maker"}, Priority: 2},
	{Keyword: "wine", Category: "wine-and-spirits", SearchTerms: []string{"wine accessories", "wine gifts"}, Priority: 2},
	{Keyword: "gardening", Category: "home-and-garden", SearchTerms: []string{"gardening tools", "gardening gifts"}, Priority: 2},
	{Keyword: "painting", Category: "arts-and-crafts", SearchTerms: []string{"painting supplies", "paint sets"}, Priority: 2},
	{Keyword: "makeup", Category: "beauty", SearchTerms: []string{"makeup sets", "makeup brushes"}, Priority: 2},
	{Keyword: "skincare", Category: "beauty", SearchTerms: []string{"skincare sets", "skincare gifts"}, Priority: 2},
	{Keyword: "fashion", Category: "fashion", SearchTerms: []string{"fashion accessories", "jewelry"}, Priority: 1},
}

// LookupBrand returns the table entry for a brand name.
func LookupBrand(name string) (BrandEntry, bool) {
	for _, b := range Brands {
		if b.Name == name {
			return b, true
		}
	}
	return BrandEntry{}, false
}
