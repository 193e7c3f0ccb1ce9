// ABOUTME: Data migration between lift storage backends.
// ABOUTME: Copies every collection from a source store to a destination store.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds per-collection record counts.
type MigrateSummary struct {
	Exercises int
	Workouts  int
	Templates int
	Records   int
}

// MigrateData copies all collections from src to dst. Records with the same
// id in dst are overwritten.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{}
	counts := map[string]*int{
		CollectionExercises: &summary.Exercises,
		CollectionWorkouts:  &summary.Workouts,
		CollectionTemplates: &summary.Templates,
		CollectionRecords:   &summary.Records,
	}

	for _, coll := range Collections {
		recs, err := src.GetAll(ctx, coll)
		if err != nil {
			return nil, fmt.Errorf("list source %s: %w", coll, err)
		}
		if len(recs) == 0 {
			continue
		}
		if err := dst.SetMany(ctx, coll, recs); err != nil {
			return nil, fmt.Errorf("write %s: %w", coll, err)
		}
		*counts[coll] = len(recs)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
