package contextparser

import (
	"regexp"
	"strconv"
	"strings"
)

// patternRule assigns Value when Pattern matches.
type patternRule struct {
	Value   string
	Pattern *regexp.Regexp
}

var relationshipRules = []patternRule{
	{Value: "spouse", Pattern: regexp.MustCompile(`(?i)\b(wife|husband|spouse|partner|girlfriend|boyfriend|fianc[eé]e?)\b`)},
	{Value: "parent", Pattern: regexp.MustCompile(`(?i)\b(mom|mother|mum|dad|father|parents?)\b`)},
	{Value: "child", Pattern: regexp.MustCompile(`(?i)\b(son|daughter|kids?|child|children)\b`)},
	{Value: "friend", Pattern: regexp.MustCompile(`(?i)\b(friend|buddy|bestie|coworker|colleague)\b`)},
	{Value: "sibling", Pattern: regexp.MustCompile(`(?i)\b(brother|sister|sibling)\b`)},
}

var occasionRules = []patternRule{
	{Value: "birthday", Pattern: regexp.MustCompile(`(?i)\bbirthday\b`)},
	{Value: "christmas", Pattern: regexp.MustCompile(`(?i)\b(christmas|xmas)\b`)},
	{Value: "anniversary", Pattern: regexp.MustCompile(`(?i)\banniversary\b`)},
	{Value: "valentine's day", Pattern: regexp.MustCompile(`(?i)\bvalentine`)},
	{Value: "graduation", Pattern: regexp.MustCompile(`(?i)\bgraduat(e|es|ed|ing|ion)\b`)},
	{Value: "wedding", Pattern: regexp.MustCompile(`(?i)\bwedding\b`)},
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*years?[\s-]*old\b`),
	regexp.MustCompile(`(?i)\bturning\s+(\d{1,3})\b`),
}

func firstRuleMatch(rules []patternRule, message string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(message) {
			return r.Value, true
		}
	}
	return "", false
}

// MatchRelationship returns the first relationship class whose pattern matches.
func MatchRelationship(message string) (string, bool) {
	return firstRuleMatch(relationshipRules, message)
}

// MatchOccasion returns the first occasion whose pattern matches.
func MatchOccasion(message string) (string, bool) {
	return firstRuleMatch(occasionRules, message)
}

// MatchAge extracts an explicit age such as "12 years old" or "turning 40".
func MatchAge(message string) (int, bool) {
	for _, p := range agePatterns {
		m := p.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err != nil || age <= 0 || age > 120 {
			continue
		}
		return age, true
	}
	return 0, false
}

// MatchBrands returns every brand entry contained in the lowercased message.
func MatchBrands(lowered string) []BrandEntry {
	var out []BrandEntry
	for _, b := range Brands {
		if strings.Contains(lowered, b.Name) {
			out = append(out, b)
		}
	}
	return out
}

// MatchInterests returns every interest entry contained in the lowercased message.
func MatchInterests(lowered string) []InterestEntry {
	var out []InterestEntry
	for _, in := range Interests {
		if strings.Contains(lowered, in.Keyword) {
			out = append(out, in)
		}
	}
	return out
}
