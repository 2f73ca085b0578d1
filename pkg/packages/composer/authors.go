package composer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// ShapeError reports a manifest field whose value has an unexpected type.
type ShapeError struct {
	Field string // Manifest key, e.g. "authors"
	Value any    // The offending decoded value
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s shape: %s", e.Field, text(e.Value))
}

// Person is one entry of a manifest "authors" list. Nil fields were absent.
type Person struct {
	Name  *string
	Email *string
	URL   *string
}

// ParsePersons normalizes an "authors" value
// (https://getcomposer.org/doc/04-schema.md#authors):
//
//	"authors": [
//	    {
//	        "name": "Nils Adermann",
//	        "email": "naderman@naderman.de",
//	        "homepage": "https://www.naderman.de",
//	        "role": "Developer"
//	    }
//	]
//
// Names are trimmed, emails lose surrounding angle brackets and whitespace,
// and homepages lose surrounding parentheses and whitespace. Other keys
// such as "role" are ignored.
//
// A value that is not a list, or a list entry that is not an object, yields
// a *ShapeError.
func ParsePersons(v any) ([]Person, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, &ShapeError{Field: "authors", Value: v}
	}

	persons := make([]Person, 0, len(list))
	for _, item := range list {
		obj, ok := item.(*ordered.Map)
		if !ok {
			return nil, &ShapeError{Field: "authors", Value: v}
		}
		persons = append(persons, Person{
			Name:  cleaned(obj, "name", unicode.IsSpace),
			Email: cleaned(obj, "email", isAny(unicode.IsSpace, "<>")),
			URL:   cleaned(obj, "homepage", isAny(unicode.IsSpace, "()")),
		})
	}
	return persons, nil
}

// mapAuthors replaces pkg.Authors with the people listed in v.
func mapAuthors(v any, pkg *packages.Package) error {
	persons, err := ParsePersons(v)
	if err != nil {
		return err
	}
	authors := make([]packages.Party, 0, len(persons))
	for _, p := range persons {
		authors = append(authors, packages.Party{
			Type:  packages.PartyPerson,
			Name:  p.Name,
			Email: p.Email,
			URL:   p.URL,
		})
	}
	pkg.Authors = authors
	return nil
}

// cleaned returns the string under key with cut trimmed from both ends,
// or nil if key is absent or not a string.
func cleaned(m *ordered.Map, key string, cut func(rune) bool) *string {
	s, ok := m.String(key)
	if !ok {
		return nil
	}
	s = strings.TrimFunc(s, cut)
	return &s
}

func isAny(base func(rune) bool, chars string) func(rune) bool {
	return func(r rune) bool { return base(r) || strings.ContainsRune(chars, r) }
}
