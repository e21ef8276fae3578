// Package classify finds rows that must not be submitted together.
package classify

import "hrsync/worklog"

// OverlapPair holds two entries of the same person whose intervals intersect.
// First always precedes Second in batch order.
type OverlapPair struct {
	First  worklog.ResolvedEntry
	Second worklog.ResolvedEntry
}

// FindDuplicates returns every raw entry whose field tuple already appeared
// earlier in the batch, in scan order.
func FindDuplicates(entries []worklog.RawEntry) []worklog.RawEntry {
	duplicates := make([]worklog.RawEntry, 0)
	seen := make(map[[6]string]struct{}, len(entries))
	for _, entry := range entries {
		key := entry.Key()
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, entry)
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// FindOverlaps returns all pairs (i < j) of entries with the same personnel
// number whose half-open intervals intersect. Touching intervals do not overlap.
func FindOverlaps(entries []worklog.ResolvedEntry) []OverlapPair {
	overlaps := make([]OverlapPair, 0)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].PersonNumber != entries[j].PersonNumber {
				continue
			}
			if Overlaps(entries[i], entries[j]) {
				overlaps = append(overlaps, OverlapPair{First: entries[i], Second: entries[j]})
			}
		}
	}
	return overlaps
}

func Overlaps(a, b worklog.ResolvedEntry) bool {
	return a.Begin.Before(b.End) && b.Begin.Before(a.End)
}
