package repository

import (
	"context"
	"fmt"

	"chatmarket/internal/domain/repository"
)

// SchemaVersion is the snapshot layout this build reads and writes.
const SchemaVersion = 1

// EnsureSchemaVersion refuses to run on snapshots written by a newer build
// and stamps the current version otherwise. Older or unstamped data is read
// as-is; there are no migrations yet.
func EnsureSchemaVersion(ctx context.Context, store repository.KeyValueStore) error {
	version := NewSnapshot[int](store, repository.KeySchemaVersion)

	stored, ok, err := version.Load(ctx)
	if err != nil {
		return err
	}
	if ok && stored > SchemaVersion {
		return fmt.Errorf("storage schema version %d is newer than supported version %d", stored, SchemaVersion)
	}

	return version.Save(ctx, SchemaVersion)
}
