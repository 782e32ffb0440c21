package contextparser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gifting-workers/internal/models"
)

// MinBudgetFloor is the lowest minimum any derived budget may carry.
const MinBudgetFloor = 10

// MaxBudgetAmount is the largest dollar amount accepted from a message.
// Anything larger is treated as malformed.
const MaxBudgetAmount = 1e9

const amount = `\$\s*(\d[\d,]*(?:\.\d+)?)`

// budgetRule converts the amounts captured by Pattern into a budget.
type budgetRule struct {
	Name    string
	Pattern *regexp.Regexp
	Derive  func(amounts []float64) (models.Budget, bool)
}

var budgetRules = []budgetRule{
	{
		Name:    "ceiling",
		Pattern: regexp.MustCompile(`(?i)(?:no more than|under|up to|maximum|max)\s*` + amount),
		Derive: func(a []float64) (models.Budget, bool) {
			n := a[0]
			return models.Budget{Min: floorMin(n * 0.5), Max: int(n)}, true
		},
	},
	{
		Name:    "range",
		Pattern: regexp.MustCompile(`(?i)` + amount + `\s*(?:-|to)\s*\$?\s*(\d[\d,]*(?:\.\d+)?)`),
		Derive: func(a []float64) (models.Budget, bool) {
			lo, hi := int(a[0]), int(a[1])
			if !(hi > lo && lo > 0) {
				return models.Budget{}, false
			}
			return models.Budget{Min: lo, Max: hi}, true
		},
	},
	{
		Name:    "approximate",
		Pattern: regexp.MustCompile(`(?i)(?:around|about|roughly)\s*` + amount),
		Derive: func(a []float64) (models.Budget, bool) {
			return spread(a[0], 7, 13), true
		},
	},
	{
		Name:    "stated",
		Pattern: regexp.MustCompile(`(?i)budget.*?` + amount),
		Derive:  deriveStated,
	},
	{
		Name:    "stated",
		Pattern: regexp.MustCompile(`(?i)` + amount + `.*?budget`),
		Derive:  deriveStated,
	},
}

func deriveStated(a []float64) (models.Budget, bool) {
	return spread(a[0], 8, 12), true
}

// ExtractBudget applies the budget rules in order and returns the first valid result.
func ExtractBudget(message string) (*models.Budget, string) {
	for _, rule := range budgetRules {
		m := rule.Pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		amounts, ok := parseAmounts(m[1:])
		if !ok {
			continue
		}
		b, ok := rule.Derive(amounts)
		if !ok {
			continue
		}
		return &b, rule.Name
	}
	return nil, ""
}

// parseAmounts returns the non-empty captured amounts; all must be positive
// numbers no larger than MaxBudgetAmount.
func parseAmounts(groups []string) ([]float64, bool) {
	var out []float64
	for _, g := range groups {
		if g == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(g, ",", ""), 64)
		if err != nil || v <= 0 || math.IsNaN(v) || v > MaxBudgetAmount {
			return nil, false
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}

// spread builds [floor(n*lo/10), ceil(n*hi/10)] with the minimum floored at MinBudgetFloor.
// Tenths are computed on integer cents so 100*1.3 is exactly 130.
func spread(n float64, loTenths, hiTenths int64) models.Budget {
	cents := int64(n*100 + 0.5)
	lo := cents * loTenths / 1000
	hiNum := cents * hiTenths
	hi := hiNum / 1000
	if hiNum%1000 != 0 {
		hi++
	}
	return models.Budget{Min: maxInt(MinBudgetFloor, int(lo)), Max: int(hi)}
}

func floorMin(v float64) int {
	return maxInt(MinBudgetFloor, int(v))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
