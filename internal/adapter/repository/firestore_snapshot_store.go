package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
)

const snapshotCollection = "snapshots"

type snapshotDocument struct {
	Key       string    `firestore:"key"`
	Payload   string    `firestore:"payload"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type firestoreSnapshotStore struct {
	client *firestore.Client
}

// NewFirestoreSnapshotStore keeps one document per key in the "snapshots"
// collection.
func NewFirestoreSnapshotStore(client *firestore.Client) repository.KeyValueStore {
	return &firestoreSnapshotStore{
		client: client,
	}
}

func (r *firestoreSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := r.client.Collection(snapshotCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrKeyNotFound
		}
		return nil, errors.Internal("Failed to get snapshot", err)
	}

	var snap snapshotDocument
	if err := doc.DataTo(&snap); err != nil {
		return nil, errors.Internal("Failed to parse snapshot document", err)
	}

	return []byte(snap.Payload), nil
}

func (r *firestoreSnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.client.Collection(snapshotCollection).Doc(key).Set(ctx, snapshotDocument{
		Key:       key,
		Payload:   string(value),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errors.Internal("Failed to write snapshot", err)
	}
	return nil
}

func (r *firestoreSnapshotStore) Delete(ctx context.Context, key string) error {
	_, err := r.client.Collection(snapshotCollection).Doc(key).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to delete snapshot", err)
	}
	return nil
}
