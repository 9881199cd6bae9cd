package worker

import (
	"github.com/spec-kit/crp-service/internal/service"
)

// RegisterEventWorkers wires the event-driven collaborators: Redis
// broadcasting, Postgres snapshots and workflow progression. Nil
// collaborators are skipped.
func RegisterEventWorkers(notifications *service.NotificationService, snapshots *service.SnapshotService, intake *service.IntakeService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if snapshots != nil {
		snapshots.RegisterHandlers()
	}
	if intake != nil {
		intake.RegisterWorkflowHandlers()
	}
}
