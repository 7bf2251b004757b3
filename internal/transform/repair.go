package transform

import "github.com/fyrsmithlabs/sessiontrim/internal/session"

// RepairParentUUIDChain restores dangling back-references after
// deletion. Any entry whose parentUuid no longer resolves to a uuid
// earlier in the array is rewritten to the nearest preceding entry that
// still has a non-empty uuid, or to null when none exists. Runs exactly
// once, after all deletions; only the parentUuid field changes.
func RepairParentUUIDChain(entries []session.Entry) ([]session.Entry, error) {
	out := make([]session.Entry, len(entries))
	copy(out, entries)

	seen := make(map[string]bool, len(out))
	for i := range out {
		if out[i].ParentUUID != "" && !seen[out[i].ParentUUID] {
			if err := out[i].SetParentUUID(nearestUUIDBefore(out, i)); err != nil {
				return nil, err
			}
		}
		if out[i].UUID != "" {
			seen[out[i].UUID] = true
		}
	}
	return out, nil
}

// nearestUUIDBefore scans backward from position i for the closest
// surviving uuid. Entries sit in a stable-index arena, so a backward
// scan is equivalent to (and far simpler than) graph surgery.
func nearestUUIDBefore(entries []session.Entry, i int) string {
	for j := i - 1; j >= 0; j-- {
		if entries[j].UUID != "" {
			return entries[j].UUID
		}
	}
	return ""
}
