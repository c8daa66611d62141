package services

import (
	"testing"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"
)

func tasksWithStatus(statuses ...models.TaskStatus) []models.ProjectTask {
	tasks := make([]models.ProjectTask, len(statuses))
	for i, s := range statuses {
		tasks[i] = models.ProjectTask{Status: s}
	}
	return tasks
}

func milestonesWithStatus(statuses ...models.MilestoneStatus) []models.ProjectMilestone {
	milestones := make([]models.ProjectMilestone, len(statuses))
	for i, s := range statuses {
		milestones[i] = models.ProjectMilestone{Status: s}
	}
	return milestones
}

func TestProjectProgressFromTasks(t *testing.T) {
	tasks := tasksWithStatus(models.TaskCompleted, models.TaskTodo, models.TaskInProgress, models.TaskTodo)

	if got := ProjectProgress(tasks, nil); got != 25 {
		t.Errorf("expected 25%% with 1 of 4 tasks done, got %d", got)
	}
}

func TestProjectProgressTasksWinOverMilestones(t *testing.T) {
	tasks := tasksWithStatus(models.TaskCompleted, models.TaskCompleted)
	milestones := milestonesWithStatus(models.MilestonePending, models.MilestonePending)

	if got := ProjectProgress(tasks, milestones); got != 100 {
		t.Errorf("tasks should take precedence over milestones, got %d", got)
	}
}

func TestProjectProgressMilestoneFallback(t *testing.T) {
	milestones := milestonesWithStatus(models.MilestoneCompleted, models.MilestonePending)

	if got := ProjectProgress(nil, milestones); got != 50 {
		t.Errorf("expected 50%% with 1 of 2 milestones done, got %d", got)
	}
}

func TestProjectProgressRoundsToNearest(t *testing.T) {
	tasks := tasksWithStatus(models.TaskCompleted, models.TaskTodo, models.TaskTodo)

	if got := ProjectProgress(tasks, nil); got != 33 {
		t.Errorf("expected 1/3 to round to 33, got %d", got)
	}

	tasks = tasksWithStatus(models.TaskCompleted, models.TaskCompleted, models.TaskTodo)
	if got := ProjectProgress(tasks, nil); got != 67 {
		t.Errorf("expected 2/3 to round to 67, got %d", got)
	}
}

func TestProjectProgressEmpty(t *testing.T) {
	if got := ProjectProgress(nil, nil); got != 0 {
		t.Errorf("expected 0 for a project with no tasks or milestones, got %d", got)
	}
}

func TestApplyTaskStatusSetsCompletedAt(t *testing.T) {
	var u storage.TaskUpdate
	ApplyTaskStatus(&u, models.TaskCompleted)

	if u.Status == nil || *u.Status != models.TaskCompleted {
		t.Fatal("status not set")
	}
	if u.CompletedAt == nil {
		t.Error("CompletedAt should be stamped when the task completes")
	}
	if u.ClearCompletedAt {
		t.Error("ClearCompletedAt should not be set on completion")
	}
}

func TestApplyTaskStatusClearsCompletedAt(t *testing.T) {
	var u storage.TaskUpdate
	ApplyTaskStatus(&u, models.TaskInProgress)

	if u.CompletedAt != nil {
		t.Error("CompletedAt should not be stamped when leaving completed")
	}
	if !u.ClearCompletedAt {
		t.Error("ClearCompletedAt should be set when leaving completed")
	}
}
