package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/helpers"
	"github.com/chambanica/chambanica-api/pkg/notify"
)

// enqueueNotification resolves the recipient's email and puts the job on the
// notification queue. Delivery is best effort; failures are logged and never
// propagate to the calling operation.
func enqueueNotification(ctx context.Context, pub *helpers.RabbitPublisher, users repository.UserRepository, logger *logrus.Logger, userID string, j notify.Job) {
	if pub == nil || userID == "" || userID == entity.SystemSenderID {
		return
	}
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Warn("notification recipient lookup failed")
		return
	}
	j.To = u.Email
	if err := pub.PublishJSON(ctx, j); err != nil {
		logger.WithError(err).WithField("event", j.Event).Warn("notification enqueue failed")
	}
}
