package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/sethvargo/go-retry"
)

const (
	updateMaxRetries = 5
	updateBackoff    = 10 * time.Millisecond
)

// Update runs one read-modify-write cycle against key under optimistic
// locking. fn receives the current body (nil when the record has never been
// written) and returns the replacement body. When a concurrent writer bumps
// the revision between the read and the write, the cycle is retried with a
// short constant backoff, bounded by updateMaxRetries.
func Update(ctx context.Context, s Store, key string, fn func(body []byte) ([]byte, error)) error {
	backoff := retry.WithMaxRetries(updateMaxRetries, retry.NewConstant(updateBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var (
			body []byte
			rev  int64
		)

		doc, err := s.Get(ctx, key)
		switch {
		case err == nil:
			body = doc.Body
			rev = doc.Revision
		case errors.Is(err, common.ErrorNotFound):
			// Lazy creation: the record comes into existence on first write.
		default:
			return err
		}

		next, err := fn(body)
		if err != nil {
			return err
		}

		err = s.Put(ctx, &Document{Key: key, Revision: rev, Body: next})
		if errors.Is(err, common.ErrorRevisionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
