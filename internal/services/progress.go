package services

import (
	"math"
	"time"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"
)

// ProjectProgress derives a completion percentage at read time. It is never
// persisted; a stored copy could drift from the task and milestone state.
// Tasks win when any exist, milestones are the fallback, otherwise zero.
func ProjectProgress(tasks []models.ProjectTask, milestones []models.ProjectMilestone) int {
	if len(tasks) > 0 {
		done := 0
		for _, t := range tasks {
			if t.Status == models.TaskCompleted {
				done++
			}
		}
		return roundPercent(done, len(tasks))
	}
	if len(milestones) > 0 {
		done := 0
		for _, m := range milestones {
			if m.Status == models.MilestoneCompleted {
				done++
			}
		}
		return roundPercent(done, len(milestones))
	}
	return 0
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Status transitions keep CompletedAt consistent with the status value: it is
// set exactly when the status becomes completed and cleared otherwise.

func ApplyProjectStatus(u *storage.ProjectUpdate, status models.ProjectStatus) {
	u.Status = &status
	if status == models.ProjectCompleted {
		now := time.Now()
		u.CompletedAt = &now
	} else {
		u.ClearCompletedAt = true
	}
}

func ApplyTaskStatus(u *storage.TaskUpdate, status models.TaskStatus) {
	u.Status = &status
	if status == models.TaskCompleted {
		now := time.Now()
		u.CompletedAt = &now
	} else {
		u.ClearCompletedAt = true
	}
}

func ApplyMilestoneStatus(u *storage.MilestoneUpdate, status models.MilestoneStatus) {
	u.Status = &status
	if status == models.MilestoneCompleted {
		now := time.Now()
		u.CompletedAt = &now
	} else {
		u.ClearCompletedAt = true
	}
}
