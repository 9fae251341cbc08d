// Package geo provides the read-only province/city reference table used to
// validate location fields on imported records.
package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed provinces.json
var defaultTable []byte

// Index maps province names to their valid city names. It is immutable once
// built; the import and validation paths only read from it.
type Index struct {
	cities map[string]map[string]struct{}
}

// NewIndex builds an index from a province -> cities table.
func NewIndex(table map[string][]string) *Index {
	idx := &Index{cities: make(map[string]map[string]struct{}, len(table))}
	for province, cities := range table {
		set := make(map[string]struct{}, len(cities))
		for _, c := range cities {
			set[c] = struct{}{}
		}
		idx.cities[province] = set
	}
	return idx
}

// Load reads a JSON province -> cities table from path. An empty path falls
// back to the embedded table.
func Load(path string) (*Index, error) {
	data := defaultTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read geography table: %w", err)
		}
	}

	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse geography table: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("geography table is empty")
	}
	return NewIndex(table), nil
}

// HasProvince reports whether the province exists.
func (i *Index) HasProvince(province string) bool {
	_, ok := i.cities[province]
	return ok
}

// HasCity reports whether the city belongs to the province.
func (i *Index) HasCity(province, city string) bool {
	set, ok := i.cities[province]
	if !ok {
		return false
	}
	_, ok = set[city]
	return ok
}

// Provinces returns the known province names in sorted order.
func (i *Index) Provinces() []string {
	out := make([]string, 0, len(i.cities))
	for p := range i.cities {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
