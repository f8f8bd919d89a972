package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
)

type jsonSnapshot[T any] struct {
	store repository.KeyValueStore
	key   string
}

// NewSnapshot stores a value as JSON under key.
func NewSnapshot[T any](store repository.KeyValueStore, key string) repository.Snapshot[T] {
	return &jsonSnapshot[T]{
		store: store,
		key:   key,
	}
}

func (s *jsonSnapshot[T]) Load(ctx context.Context) (T, bool, error) {
	var value T

	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if stderrors.Is(err, repository.ErrKeyNotFound) {
			return value, false, nil
		}
		return value, false, errors.Internal("Failed to read "+s.key, err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, errors.Internal("Failed to parse "+s.key, err)
	}

	return value, true, nil
}

func (s *jsonSnapshot[T]) Save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Internal("Failed to encode "+s.key, err)
	}

	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return errors.Internal("Failed to write "+s.key, err)
	}

	return nil
}

func (s *jsonSnapshot[T]) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return errors.Internal("Failed to delete "+s.key, err)
	}
	return nil
}
