package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"gifting-workers/internal/models"
)

const hintSuffix = `\s*(?:items|products|stuff|options|things|ideas|gifts|ones|choices)?\s*[.!?]*\s*$`

var (
	showMorePattern = regexp.MustCompile(`(?i)(?:show\s+(?:me\s+)?)?\b(?:more|other|additional)\s+(.+?)` + hintSuffix)
	refinePattern   = regexp.MustCompile(`(?i)\b(cheaper|less expensive|better|higher quality|nicer|under\s+\$\d+)\s+(.+?)` + hintSuffix)
	underPattern    = regexp.MustCompile(`(?i)\bunder\s+\$(\d+)`)
)

// hintFillers are stripped from the front of a captured hint.
var hintFillers = []string{"of the ", "of those ", "of these ", "of ", "the ", "those ", "these ", "some "}

// minReverseMatch is the shortest hint allowed to match inside a category name.
const minReverseMatch = 3

// ParseFollowUp recognises show-more and refine requests that refer to a
// category in previous. It returns nil when no request resolves.
func ParseFollowUp(message string, previous *models.GroupedSearchResults) *models.FollowUpRequest {
	if m := showMorePattern.FindStringSubmatch(message); m != nil {
		hint := cleanHint(m[1])
		if category, ok := ResolveCategory(hint, previous); ok {
			return &models.FollowUpRequest{
				Type:         models.FollowUpShowMore,
				CategoryName: category,
				Hint:         hint,
			}
		}
	}

	if m := refinePattern.FindStringSubmatch(message); m != nil {
		hint := cleanHint(m[2])
		if category, ok := ResolveCategory(hint, previous); ok {
			req := &models.FollowUpRequest{
				Type:         models.FollowUpRefine,
				CategoryName: category,
				Hint:         hint,
				Refinement:   &models.Refinement{Direction: refineDirection(m[1])},
			}
			if u := underPattern.FindStringSubmatch(message); u != nil {
				if n, err := strconv.Atoi(u[1]); err == nil && n > 0 {
					req.Refinement.PriceMax = &n
				}
			}
			return req
		}
	}

	return nil
}

// ResolveCategory maps a free-text hint onto a category present in previous.
// Names and display names match by substring in either direction; failing
// that, a keyword table is consulted.
func ResolveCategory(hint string, previous *models.GroupedSearchResults) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" || previous == nil || len(previous.Categories) == 0 {
		return "", false
	}

	for _, c := range previous.Categories {
		if substringEither(h, strings.ToLower(c.CategoryName)) || substringEither(h, strings.ToLower(c.DisplayName)) {
			return c.CategoryName, true
		}
	}

	for _, kw := range followUpKeywords {
		if !strings.Contains(h, kw.Keyword) {
			continue
		}
		for _, candidate := range kw.Categories {
			if _, ok := previous.Category(candidate); ok {
				return candidate, true
			}
		}
	}
	return "", false
}

func substringEither(hint, name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(hint, name) {
		return true
	}
	return len(hint) >= minReverseMatch && strings.Contains(name, hint)
}

func cleanHint(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	for changed := true; changed; {
		changed = false
		for _, f := range hintFillers {
			if strings.HasPrefix(h, f) {
				h = strings.TrimSpace(strings.TrimPrefix(h, f))
				changed = true
			}
		}
	}
	return h
}

func refineDirection(trigger string) string {
	t := strings.ToLower(trigger)
	if t == "better" || t == "higher quality" || t == "nicer" {
		return "better"
	}
	return "cheaper"
}
