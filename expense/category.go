package expense

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Other is the catch-all category every unknown input normalizes to.
const Other = "Other"

var defaultCategoryNames = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", Other}

// Categories is an immutable, ordered set of category names.
type Categories struct {
	names []string
	index map[string]struct{}
}

// DefaultCategories returns Food, Transport, Entertainment, Shopping, Bills
// and Other.
func DefaultCategories() Categories {
	return NewCategories(defaultCategoryNames...)
}

// NewCategories builds a category set from names. Names are trimmed and
// title-cased, blanks and duplicates are dropped, and Other is appended when
// missing so normalization always has a member to fall back to.
func NewCategories(names ...string) Categories {
	c := Categories{
		names: make([]string, 0, len(names)+1),
		index: make(map[string]struct{}, len(names)+1),
	}

	for _, name := range names {
		name = titleCase(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := c.index[name]; ok {
			continue
		}
		c.index[name] = struct{}{}
		c.names = append(c.names, name)
	}

	if _, ok := c.index[Other]; !ok {
		c.index[Other] = struct{}{}
		c.names = append(c.names, Other)
	}

	return c
}

// IsZero reports whether c was never initialized.
func (c Categories) IsZero() bool {
	return c.index == nil
}

// Contains reports whether name is a member, compared exactly.
func (c Categories) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names returns the members in configured order.
func (c Categories) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Normalize trims raw, capitalizes the first letter of each word and
// lowercases the rest. Results outside the set become Other.
func (c Categories) Normalize(raw string) string {
	name := titleCase(strings.TrimSpace(raw))
	if c.Contains(name) {
		return name
	}
	return Other
}

// A Caser keeps state between calls, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
