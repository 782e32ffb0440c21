package conversation

// keywordCategories maps a hint fragment to candidate categories, most likely first.
type keywordCategories struct {
	Keyword    string
	Categories []string
}

var followUpKeywords = []keywordCategories{
	{"cook", []string{"cooking", "kitchen"}},
	{"kitchen", []string{"kitchen", "cooking"}},
	{"chef", []string{"cooking", "kitchen"}},
	{"bak", []string{"kitchen", "cooking"}},
	{"coffee", []string{"kitchen"}},
	{"yoga", []string{"fitness", "yoga"}},
	{"workout", []string{"fitness"}},
	{"gym", []string{"fitness"}},
	{"exercise", []string{"fitness"}},
	{"athletic", []string{"athletic-wear"}},
	{"legging", []string{"athletic-wear"}},
	{"sneaker", []string{"athletic-wear"}},
	{"shoe", []string{"athletic-wear", "fashion"}},
	{"cloth", []string{"athletic-wear", "fashion"}},
	{"apparel", []string{"athletic-wear", "fashion"}},
	{"sport", []string{"sports", "athletic-wear"}},
	{"golf", []string{"sports"}},
	{"travel", []string{"travel"}},
	{"trip", []string{"travel"}},
	{"luggage", []string{"travel"}},
	{"outdoor", []string{"outdoor-gear"}},
	{"hik", []string{"outdoor-gear"}},
	{"camp", []string{"outdoor-gear"}},
	{"tech", []string{"electronics"}},
	{"gadget", []string{"electronics"}},
	{"electronic", []string{"electronics"}},
	{"headphone", []string{"electronics", "music"}},
	{"book", []string{"books"}},
	{"read", []string{"books"}},
	{"makeup", []string{"beauty"}},
	{"skin", []string{"beauty"}},
	{"music", []string{"music"}},
	{"wine", []string{"wine-and-spirits"}},
	{"garden", []string{"home-and-garden"}},
	{"toy", []string{"toys"}},
	{"jewel", []string{"fashion"}},
}

var relatedCategories = map[string][]string{
	"cooking":          {"travel", "kitchen", "outdoor-gear"},
	"kitchen":          {"cooking", "home-and-garden", "wine-and-spirits"},
	"fitness":          {"athletic-wear", "outdoor-gear", "beauty"},
	"yoga":             {"fitness", "athletic-wear", "wellness"},
	"athletic-wear":    {"fitness", "outdoor-gear", "electronics"},
	"outdoor-gear":     {"travel", "fitness", "athletic-wear"},
	"travel":           {"outdoor-gear", "electronics", "fashion"},
	"electronics":      {"music", "books", "travel"},
	"books":            {"home-and-garden", "music", "arts-and-crafts"},
	"beauty":           {"fashion", "fitness"},
	"music":            {"electronics", "books"},
	"fashion":          {"beauty", "athletic-wear"},
	"sports":           {"athletic-wear", "outdoor-gear"},
	"home-and-garden":  {"kitchen", "books"},
	"wine-and-spirits": {"kitchen", "home-and-garden"},
	"toys":             {"books", "arts-and-crafts"},
	"arts-and-crafts":  {"books", "home-and-garden"},
}

// suggestionReasons is keyed by "from:to". Pairs without an entry are never suggested.
var suggestionReasons = map[string]string{
	"cooking:travel":                   "Food lovers often enjoy culinary travel experiences",
	"cooking:kitchen":                  "Quality kitchen tools complement a love of cooking",
	"cooking:outdoor-gear":             "Outdoor cooking gear brings the kitchen to the campsite",
	"kitchen:cooking":                  "Cookbooks and classes pair well with new kitchen gear",
	"kitchen:home-and-garden":          "Home cooks often appreciate herb gardens and home upgrades",
	"kitchen:wine-and-spirits":         "Wine accessories round out a well-stocked kitchen",
	"fitness:athletic-wear":            "Performance apparel supports an active routine",
	"fitness:outdoor-gear":             "Active people often take their workouts outside",
	"fitness:beauty":                   "Recovery and self-care products complement training",
	"yoga:fitness":                     "Yoga practitioners often enjoy broader fitness gear",
	"yoga:athletic-wear":               "Comfortable athleisure is a yoga staple",
	"athletic-wear:fitness":            "Fitness accessories complete an athletic wardrobe",
	"athletic-wear:outdoor-gear":       "Athletic apparel fans often enjoy outdoor adventures",
	"athletic-wear:electronics":        "Fitness trackers and earbuds suit an active lifestyle",
	"outdoor-gear:travel":              "Adventurers usually love travel accessories too",
	"outdoor-gear:fitness":             "Outdoor enthusiasts tend to stay active year-round",
	"outdoor-gear:athletic-wear":       "Technical apparel pairs with outdoor gear",
	"travel:outdoor-gear":              "Travelers often seek outdoor adventures",
	"travel:electronics":               "Travel-friendly tech makes trips easier",
	"travel:fashion":                   "Stylish travel accessories are always welcome",
	"electronics:music":                "Tech lovers often appreciate quality audio",
	"electronics:books":                "E-readers bridge tech and reading",
	"electronics:travel":               "Portable gadgets are travel essentials",
	"books:home-and-garden":            "Cozy reading nooks start with home comforts",
	"books:music":                      "Readers often enjoy audiobooks and music",
	"books:arts-and-crafts":            "Creative readers may enjoy hands-on hobbies",
	"beauty:fashion":                   "Beauty lovers often enjoy fashion accessories",
	"beauty:fitness":                   "Wellness spans self-care and fitness",
	"music:electronics":                "Music fans appreciate great headphones and speakers",
	"music:books":                      "Music biographies make thoughtful gifts",
	"fashion:beauty":                   "Fashion and beauty go hand in hand",
	"fashion:athletic-wear":            "Athleisure blends style and comfort",
	"sports:athletic-wear":             "Sports fans need the right apparel",
	"sports:outdoor-gear":              "Sports lovers often enjoy time outdoors",
	"home-and-garden:kitchen":          "Home improvers often upgrade their kitchens too",
	"home-and-garden:books":            "Gardening guides make great companions",
	"wine-and-spirits:kitchen":         "Wine lovers often enjoy entertaining at home",
	"wine-and-spirits:home-and-garden": "Entertaining spaces complement a wine collection",
	"toys:books":                       "Books encourage the same curiosity as toys",
	"toys:arts-and-crafts":             "Craft kits are a creative alternative to toys",
	"arts-and-crafts:books":            "Art books inspire new projects",
	"arts-and-crafts:home-and-garden":  "Crafters love decorating their homes",
}
