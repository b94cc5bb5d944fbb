package storage

import (
	"fmt"
	"regexp"
	"strconv"
)

// NextID derives the next sequential identifier for a prefix by
// scanning the existing IDs for the highest numeric suffix of the form
// "prefix_NNN". With no match it returns "prefix_001". Two writers
// calling this near-simultaneously can compute the same ID; the design
// assumes a single writer.
func NextID(prefix string, existing []string) string {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `_(\d+)$`)

	highest := 0
	for _, id := range existing {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s_%03d", prefix, highest+1)
}
