package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/pkg/apperr"
)

// publishChange fans a change notification out to the given redis channels.
// Payload content is irrelevant to subscribers, they re-query on any message.
func publishChange(ctx context.Context, rdb *redis.Client, logger *logrus.Logger, channels ...string) {
	if rdb == nil {
		return
	}
	for _, ch := range channels {
		if err := rdb.Publish(ctx, ch, time.Now().UnixNano()).Err(); err != nil && logger != nil {
			logger.WithError(err).WithField("channel", ch).Warn("change notification failed")
		}
	}
}

// watchSnapshots subscribes to a change channel and emits a full snapshot of
// the query result: once immediately, then again after every notification.
// The subscription is torn down when ctx is cancelled, after which the
// returned channel is closed.
func watchSnapshots[T any](ctx context.Context, rdb *redis.Client, logger *logrus.Logger, channel string, query func(context.Context) (T, error)) (<-chan T, error) {
	if rdb == nil {
		return nil, apperr.Transient(redis.ErrClosed)
	}
	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, apperr.Transient(err)
	}

	first, err := query(ctx)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan T, 1)
	out <- first

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				snap, err := query(ctx)
				if err != nil {
					if logger != nil {
						logger.WithError(err).WithField("channel", channel).Warn("watch re-query failed")
					}
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
