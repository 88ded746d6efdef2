package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// MultiLoader fans a batch out to several loaders in order. Every loader is
// called even when an earlier one fails; the failures are joined.
type MultiLoader []BatchLoader

func (m MultiLoader) LoadBatch(ctx context.Context, readings []domain.Reading) error {
	var errs []error
	for _, l := range m {
		if err := l.LoadBatch(ctx, readings); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
