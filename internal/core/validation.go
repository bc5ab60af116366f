package core

// validation.go provides the structural checks run around typing.
//
// Validation happens at two levels:
//  1. Header validation: the input must carry every required column
//  2. Key validation: the natural key must be present and unique on every row
//
// Both report everything they find in one error rather than stopping at the
// first problem, so a rejected file can be fixed in one pass.

import (
	"github.com/JonMunkholm/filety/internal/frame"
)

// SelectRequired projects f onto the required columns in declared order.
// It returns a SchemaError naming file and every missing column.
func SelectRequired(file string, f frame.Frame, required []string) (frame.Frame, error) {
	if missing := f.Missing(required); len(missing) > 0 {
		return frame.Frame{}, &SchemaError{File: file, Missing: missing}
	}
	return f.Select(required...)
}

// CheckNaturalKey verifies that no key cell is missing and no key tuple
// appears on more than one row. An empty key disables the check.
func CheckNaturalKey(f frame.Frame, key []string) error {
	if len(key) == 0 {
		return nil
	}
	keys, err := f.Select(key...)
	if err != nil {
		return err
	}

	blank := 0
	for r := 0; r < keys.Len(); r++ {
		for _, c := range keys.Row(r) {
			if _, ok := rawValue(c); !ok {
				blank++
				break
			}
		}
	}
	if blank > 0 {
		return &ValidationError{
			Message:   "blank natural key values are not allowed",
			Key:       key,
			BlankKeys: blank,
		}
	}

	groups, err := keys.GroupBy(key...)
	if err != nil {
		return err
	}
	var dups []KeyCount
	for _, g := range groups {
		if g.Count() < 2 {
			continue
		}
		tuple := make([]string, len(g.Key))
		for i, c := range g.Key {
			tuple[i] = c.String()
		}
		dups = append(dups, KeyCount{Key: tuple, Count: g.Count()})
	}
	if len(dups) > 0 {
		return &ValidationError{
			Message:    "repeated natural key: multiple rows for the same " + quoteAll(key) + " tuple",
			Key:        key,
			Duplicates: dups,
		}
	}
	return nil
}
