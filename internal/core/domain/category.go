package domain

import (
	"strings"
	"time"
)

// Category is one entry of the shared chore taxonomy: a main category and the
// ordered list of its subcategories.
type Category struct {
	ID            string    `json:"id"`
	MainCategory  string    `json:"main_category"`
	SubCategories []string  `json:"sub_categories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubCategoriesText renders the subcategories the way the edit form expects them.
func (c Category) SubCategoriesText() string {
	return strings.Join(c.SubCategories, ", ")
}

// SplitSubCategories turns comma-separated input into an ordered list.
// Parts are trimmed and empty parts are dropped; duplicates are kept.
func SplitSubCategories(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Choices maps main category names to the subcategories offered for them.
// Names keeps first-seen order so pickers render deterministically.
type Choices struct {
	Names []string            `json:"names"`
	Subs  map[string][]string `json:"subs"`
}

// BuildChoices folds taxonomy entries into Choices. When two entries share a
// main category name the later entry replaces the earlier subcategory list.
func BuildChoices(categories []Category) Choices {
	ch := Choices{Subs: make(map[string][]string, len(categories))}
	for _, c := range categories {
		if _, seen := ch.Subs[c.MainCategory]; !seen {
			ch.Names = append(ch.Names, c.MainCategory)
		}
		subs := make([]string, len(c.SubCategories))
		copy(subs, c.SubCategories)
		ch.Subs[c.MainCategory] = subs
	}
	return ch
}

// Has reports whether main is offered and, when sub is non-empty, whether sub
// belongs to it.
func (ch Choices) Has(main, sub string) bool {
	subs, ok := ch.Subs[main]
	if !ok {
		return false
	}
	if sub == "" {
		return true
	}
	for _, s := range subs {
		if s == sub {
			return true
		}
	}
	return false
}
