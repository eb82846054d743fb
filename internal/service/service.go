// Package service implements the mutation service layer. Every mutating
// operation follows the same sequence: resolve caller, load the target (and
// its owning board), run the permission check, apply the validated input,
// persist, reload relations, publish a scoped event, return the entity.
// Checks strictly precede writes; event publishing is best-effort and never
// rolls back a completed mutation.
package service

import (
	"context"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func requireCaller(caller *model.User) error {
	if caller == nil {
		return apperr.Authentication("You must be logged in to perform this action")
	}
	return nil
}

// activityRecorder appends audit entries without ever failing the request.
type activityRecorder struct {
	activity repository.ActivityLogRepositoryInterface
	log      *logrus.Logger
}

func (a *activityRecorder) record(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, metadata map[string]string) {
	if a.activity == nil {
		return
	}
	id := entityID
	entry := &model.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Metadata:   metadata,
	}
	if err := a.activity.Create(ctx, entry); err != nil {
		a.log.WithFields(logrus.Fields{"action": action, "user_id": userID}).
			WithError(err).Warn("activity log write failed")
	}
}
