package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// ModuleSet is the set of access modules granted to a role.
// It is stored as a JSON array column and is always sorted when serialized.
type ModuleSet map[string]struct{}

// NewModuleSet builds a set from modules, collapsing duplicates
func NewModuleSet(modules ...string) ModuleSet {
	s := make(ModuleSet, len(modules))
	for _, m := range modules {
		s[m] = struct{}{}
	}
	return s
}

// Contains reports whether module is in the set
func (s ModuleSet) Contains(module string) bool {
	_, ok := s[module]
	return ok
}

// Remove deletes module and reports whether it was present
func (s ModuleSet) Remove(module string) bool {
	if !s.Contains(module) {
		return false
	}
	delete(s, module)
	return true
}

// Slice returns the modules in sorted order
func (s ModuleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a sorted JSON array
func (s ModuleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes a JSON array, collapsing duplicates
func (s *ModuleSet) UnmarshalJSON(data []byte) error {
	var modules []string
	if err := json.Unmarshal(data, &modules); err != nil {
		return err
	}
	*s = NewModuleSet(modules...)
	return nil
}

// Value implements driver.Valuer for the accessModules column
func (s ModuleSet) Value() (driver.Value, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the accessModules column
func (s *ModuleSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = NewModuleSet()
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into ModuleSet", src)
	}
}
