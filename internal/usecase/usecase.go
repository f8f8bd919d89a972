package usecase

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// Clock returns the current time. Use cases store UTC at millisecond
// precision so snapshots reload to equal values.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

var validate = newValidator()

var whatsAppPattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

// RegisterValidations adds the custom tags used by use case inputs, so the
// HTTP layer validates request bodies by the same rules.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("whatsapp", func(fl validator.FieldLevel) bool {
		return ValidWhatsAppNumber(fl.Field().String())
	})
}

// ValidWhatsAppNumber accepts an international number with an optional
// leading plus. Spaces are ignored.
func ValidWhatsAppNumber(number string) bool {
	return whatsAppPattern.MatchString(strings.ReplaceAll(number, " ", ""))
}

func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return errors.ValidationFailed(verrs)
	}
	return errors.BadRequest("Invalid input data", err)
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

// commit saves next as the whole collection and only then swaps it in, so
// memory never runs ahead of storage. Callers hold the owning lock.
func commit[T any](ctx context.Context, store repository.Snapshot[[]T], key string, next []T, target *[]T) error {
	if err := store.Save(ctx, next); err != nil {
		logger.LogPersistError(key, err)
		return err
	}
	*target = next
	return nil
}

// commitBoth saves two collections that change together. If the second save
// fails the first is written back to its previous value, and neither is
// swapped in.
func commitBoth[A, B any](
	ctx context.Context,
	storeA repository.Snapshot[[]A], keyA string, nextA []A, targetA *[]A,
	storeB repository.Snapshot[[]B], keyB string, nextB []B, targetB *[]B,
) error {
	if err := storeA.Save(ctx, nextA); err != nil {
		logger.LogPersistError(keyA, err)
		return err
	}
	if err := storeB.Save(ctx, nextB); err != nil {
		logger.LogPersistError(keyB, err)
		if restoreErr := storeA.Save(context.WithoutCancel(ctx), *targetA); restoreErr != nil {
			logger.LogPersistError(keyA, restoreErr)
		}
		return err
	}
	*targetA = nextA
	*targetB = nextB
	return nil
}

func cloneAll[T interface{ Clone() T }](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func filter[T interface{ Clone() T }](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}
