package watcher

import (
	"sort"
	"sync"
)

// Modification pairs the previous and current state of a changed entry.
type Modification struct {
	Old FileRecord
	New FileRecord
}

// DiffResult classifies one fresh scan against the monitored set.
type DiffResult struct {
	// Created are entries with no prior record, in scan order.
	Created []FileRecord

	// Modified are entries whose modification time differs from the prior record.
	Modified []Modification

	// Deleted are prior records missing from the scan, in path order.
	Deleted []FileRecord

	// Unchanged are prior records carried forward as-is.
	Unchanged []FileRecord
}

// Empty reports whether the result holds nothing to dispatch.
func (d DiffResult) Empty() bool {
	return len(d.Created) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0
}

// SnapshotDiffer holds the monitored set: what existed as of the end of the
// previous cycle. Only the cycle mutates it; queries get copies.
type SnapshotDiffer struct {
	mu        sync.RWMutex
	monitored map[string]FileRecord
}

// NewSnapshotDiffer creates a differ with an empty monitored set.
func NewSnapshotDiffer() *SnapshotDiffer {
	return &SnapshotDiffer{
		monitored: make(map[string]FileRecord),
	}
}

// Diff classifies fresh against the monitored set without changing it.
//
// Each fresh record is matched by path: same modification time is unchanged
// (the old record is carried), a different time is a modification, no match
// is a creation. Whatever was never matched has been deleted.
func (d *SnapshotDiffer) Diff(fresh []FileRecord) DiffResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result DiffResult

	matched := make(map[string]struct{}, len(fresh))

	for _, rec := range fresh {
		if _, dup := matched[rec.Path]; dup {
			continue
		}
		matched[rec.Path] = struct{}{}

		old, known := d.monitored[rec.Path]

		switch {
		case !known:
			result.Created = append(result.Created, rec)
		case old.LastModified.Equal(rec.LastModified):
			result.Unchanged = append(result.Unchanged, old)
		default:
			result.Modified = append(result.Modified, Modification{Old: old, New: rec})
		}
	}

	for path, old := range d.monitored {
		if _, ok := matched[path]; !ok {
			result.Deleted = append(result.Deleted, old)
		}
	}

	sort.Slice(result.Deleted, func(i, j int) bool { return result.Deleted[i].Path < result.Deleted[j].Path })

	return result
}

// Commit replaces the monitored set with what result carries forward:
// unchanged records, the new side of modifications, and creations.
func (d *SnapshotDiffer) Commit(result DiffResult) {
	next := make(map[string]FileRecord, len(result.Unchanged)+len(result.Modified)+len(result.Created))

	for _, rec := range result.Unchanged {
		next[rec.Path] = rec
	}

	for _, mod := range result.Modified {
		next[mod.New.Path] = mod.New
	}

	for _, rec := range result.Created {
		next[rec.Path] = rec
	}

	d.mu.Lock()
	d.monitored = next
	d.mu.Unlock()
}

// Retain drops every record whose path keep rejects, without reporting them
// as deleted. It returns how many records were dropped.
func (d *SnapshotDiffer) Retain(keep func(path string) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := 0

	for path := range d.monitored {
		if !keep(path) {
			delete(d.monitored, path)
			dropped++
		}
	}

	return dropped
}

// Reset empties the monitored set.
func (d *SnapshotDiffer) Reset() {
	d.mu.Lock()
	d.monitored = make(map[string]FileRecord)
	d.mu.Unlock()
}

// Len returns the size of the monitored set.
func (d *SnapshotDiffer) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.monitored)
}

// Snapshot returns a copy of the monitored set in path order.
func (d *SnapshotDiffer) Snapshot() []FileRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := make([]FileRecord, 0, len(d.monitored))
	for _, rec := range d.monitored {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	return records
}
