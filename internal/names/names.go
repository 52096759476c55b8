// Package names holds the fixed list of allowed family names. A person's
// identity is their canonicalized display name, so matching is
// case-insensitive and the configured spelling wins.
package names

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Registry maps case-folded input names to their configured spelling.
type Registry struct {
	ordered []string
	byFold  map[string]string
	emails  map[string]string
}

// NewRegistry builds a registry from the configured family names. Blank
// entries are skipped; the first spelling of a duplicate wins.
func NewRegistry(allowed []string) *Registry {
	r := &Registry{
		byFold: make(map[string]string, len(allowed)),
		emails: make(map[string]string),
	}
	for _, name := range allowed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := fold.String(name)
		if _, dup := r.byFold[key]; dup {
			continue
		}
		r.byFold[key] = name
		r.ordered = append(r.ordered, name)
	}
	return r
}

// Canonicalize resolves name to its configured spelling. The second return
// is false when the name is not in the family list.
func (r *Registry) Canonicalize(name string) (string, bool) {
	canonical, ok := r.byFold[fold.String(strings.TrimSpace(name))]
	return canonical, ok
}

// All returns the allowed names in configuration order.
func (r *Registry) All() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of allowed names.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// SetEmails records member emails, keyed by any allowed spelling. Unknown
// names are ignored.
func (r *Registry) SetEmails(emails map[string]string) {
	for name, email := range emails {
		if canonical, ok := r.Canonicalize(name); ok && email != "" {
			r.emails[canonical] = email
		}
	}
}

// EmailFor returns the configured email for a canonical name, or "".
func (r *Registry) EmailFor(canonical string) string {
	return r.emails[canonical]
}
