// Package categorizer assigns informational category tags to candidate
// names by keyword and pattern matching over static lists. Categories never
// influence deck or match logic.
package categorizer

import (
	"regexp"
	"strings"
)

// Category describes one name category and its matching rules.
type Category struct {
	ID          string
	Name        string
	Description string
	Keywords    []string
	Patterns    []*regexp.Regexp
}

// Categories is the built-in category set, in seed order.
var Categories = []Category{
	{
		ID:          "traditional-danish",
		Name:        "Traditional Danish",
		Description: "Classic Danish names with historical significance",
		Keywords:    []string{"lars", "anders", "christian", "erik", "karl", "anna", "marie", "karen", "lise", "birte", "jens", "niels", "per", "ole", "bent"},
		Patterns:    compile(`sen$`, `borg$`, `gaard$`),
	},
	{
		ID:          "nordic",
		Name:        "Nordic Names",
		Description: "Names from Scandinavian countries",
		Keywords:    []string{"thor", "bjorn", "erik", "astrid", "ingrid", "sven", "olaf", "maja", "lena", "nils", "gustav", "arvid", "sigrid", "gunnar"},
		Patterns:    compile(`sson$`, `sen$`, `dottir$`),
	},
	{
		ID:          "modern",
		Name:        "Modern Names",
		Description: "Contemporary names popular in recent years",
		Keywords:    []string{"noah", "emma", "oliver", "sophia", "lucas", "mia", "william", "ella", "oscar", "alma", "nova", "theo", "luna"},
	},
	{
		ID:          "international",
		Name:        "International",
		Description: "Names usable in Danish and English",
		Keywords:    []string{"alex", "anna", "emma", "max", "nina", "sara", "tim", "mia", "leo", "ida", "ben", "eva", "kim", "lisa"},
	},
	{
		ID:          "nature",
		Name:        "Nature Names",
		Description: "Names inspired by nature, plants, and animals",
		Keywords:    []string{"rose", "lily", "iris", "sky", "river", "storm", "sage", "ivy", "dawn", "forest", "ocean", "luna", "sol", "flora"},
	},
	{
		ID:          "short",
		Name:        "Short Names",
		Description: "Names with 4 letters or fewer",
		Patterns:    compile(`^.{1,4}$`),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Categorize returns the ids of all categories matching the given name.
// Matching is case-insensitive; keywords match as substrings.
func Categorize(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}

	var ids []string
	for _, cat := range Categories {
		if matches(cat, lower) {
			ids = append(ids, cat.ID)
		}
	}
	return ids
}

func matches(cat Category, lower string) bool {
	for _, kw := range cat.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, pat := range cat.Patterns {
		if pat.MatchString(lower) {
			return true
		}
	}
	return false
}

// ByID returns the category with the given id, if any.
func ByID(id string) (Category, bool) {
	for _, cat := range Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// HasSpecialChars reports whether the name contains characters outside the
// Latin and Danish letter set, spaces, hyphens and apostrophes. Recorded on
// each record for analytics.
var specialChars = regexp.MustCompile(`[^a-zA-ZæøåÆØÅ\s\-']`)

func HasSpecialChars(name string) bool {
	return specialChars.MatchString(strings.TrimSpace(name))
}
