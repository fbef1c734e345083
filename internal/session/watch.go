package session

import (
	"context"
	"errors"
	"time"

	"bugghost-client/apperrors"
	"bugghost-client/internal/utils"
	"bugghost-client/models"

	"github.com/cenkalti/backoff/v5"
)

// ErrStillProcessing is returned by Watch when the attempts run out before the
// session reached a terminal status.
var ErrStillProcessing = errors.New("session is still processing")

// WatchOptions bounds the polling loop of Watch
type WatchOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxTries        uint

	// OnPoll, if set, receives every snapshot fetched, terminal or not
	OnPoll func(*models.DebugSession)
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		InitialInterval: 2 * time.Second,
		MaxInterval:     15 * time.Second,
		MaxTries:        40,
	}
}

// Watch re-fetches a session until its status is no longer processing, the
// tries are exhausted, or ctx is done. Network failures are retried within
// the same budget; server rejections and NotFound end the loop at once.
func Watch(ctx context.Context, getter Getter, id string, opts WatchOptions) (*models.DebugSession, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval

	var last *models.DebugSession
	operation := func() (*models.DebugSession, error) {
		s, err := getter.Get(ctx, id)
		if err != nil {
			var netErr *apperrors.NetworkError
			if errors.As(err, &netErr) && ctx.Err() == nil {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		last = s
		if opts.OnPoll != nil {
			opts.OnPoll(s)
		}
		if !s.Status.Terminal() {
			return nil, ErrStillProcessing
		}
		return s, nil
	}

	notify := func(err error, next time.Duration) {
		utils.LogDebug("watch %s: %v, next poll in %s", id, err, next)
	}

	s, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(opts.MaxTries),
		backoff.WithNotify(notify),
	)
	if err != nil {
		if errors.Is(err, ErrStillProcessing) && last != nil {
			return last, err
		}
		return nil, err
	}
	return s, nil
}
