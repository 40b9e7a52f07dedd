package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Overlap is a category that exists in both taxonomies together with
// the group it belongs to.
type Overlap struct {
	Category string `json:"category"`
	Group    string `json:"group"`
}

// NearMiss is a category without overlap that is spelled similar to a
// category of the other taxonomy.
type NearMiss struct {
	Category  string
	Candidate string
	Distance  int
}

// Categories returns the distinct non-empty categories of the records
// in the order they first occur.
func Categories(records []Record) []string {
	seen := map[string]bool{}
	categories := []string{}

	for _, r := range records {
		if r.Category == "" || seen[r.Category] {
			continue
		}

		seen[r.Category] = true
		categories = append(categories, r.Category)
	}

	return categories
}

// FindOverlaps returns the categories that also exist in the taxonomy
// with their group from the taxonomy, in the order of categories.
//
// Categories must already be normalized.
func FindOverlaps(categories []string, taxonomy CategoryGroups) []Overlap {
	overlaps := []Overlap{}
	seen := map[string]bool{}

	for _, c := range categories {
		group, ok := taxonomy[c]
		if !ok || seen[c] {
			continue
		}

		seen[c] = true
		overlaps = append(overlaps, Overlap{Category: c, Group: group})
	}

	return overlaps
}

// GroupsFromOverlaps returns the lookup table for the groups of the overlapping categories.
func GroupsFromOverlaps(overlaps []Overlap) CategoryGroups {
	groups := make(CategoryGroups, len(overlaps))
	for _, o := range overlaps {
		groups[o.Category] = o.Group
	}
	return groups
}

// NearMisses returns, for every category not in the taxonomy, the taxonomy
// categories within maxDistance edits. It is used to spot spelling differences
// between the two sources and never changes the overlaps.
func NearMisses(categories []string, taxonomy CategoryGroups, maxDistance int) []NearMiss {
	candidates := make([]string, 0, len(taxonomy))
	for c := range taxonomy {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	misses := []NearMiss{}
	for _, c := range categories {
		if _, ok := taxonomy[c]; ok {
			continue
		}

		for _, candidate := range candidates {
			d := levenshtein.ComputeDistance(c, candidate)
			if d > 0 && d <= maxDistance {
				misses = append(misses, NearMiss{Category: c, Candidate: candidate, Distance: d})
			}
		}
	}

	sort.SliceStable(misses, func(i, j int) bool {
		if misses[i].Category != misses[j].Category {
			return misses[i].Category < misses[j].Category
		}
		return misses[i].Distance < misses[j].Distance
	})

	return misses
}

// WriteOverlaps writes the overlaps as indented JSON.
func WriteOverlaps(w io.Writer, overlaps []Overlap) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(overlaps)
}

// ReadOverlaps reads overlaps written by WriteOverlaps.
func ReadOverlaps(r io.Reader) ([]Overlap, error) {
	var overlaps []Overlap
	if err := json.NewDecoder(r).Decode(&overlaps); err != nil {
		return nil, fmt.Errorf("could not decode the overlapping categories: %w", err)
	}

	return overlaps, nil
}
