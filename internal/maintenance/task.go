package maintenance

import (
	"context"
	"log/slog"
	"strings"
)

type TaskCreate struct {
	StartTime string
	EndTime   string
	// WorkshopForemanID приходит в поле "workshop": это id начальника цеха,
	// цех которого записывается в задачу.
	WorkshopForemanID int64
	ForemanID         int64
	TechnicianID      int64
	TaskDescription   string
	Important         bool
}

// TaskUpdate - изменяемые поля задачи. Начальник, работник и статус здесь не меняются.
type TaskUpdate struct {
	StartTime       string
	EndTime         string
	TaskDescription string
	Important       bool
}

func normalizeTaskFields(startTime, endTime, description *string) error {
	*startTime = strings.TrimSpace(*startTime)
	*endTime = strings.TrimSpace(*endTime)
	*description = SanitizeString(*description)

	if err := ValidateDateTime("start_time", *startTime); err != nil {
		return err
	}
	if err := ValidateDateTime("end_time", *endTime); err != nil {
		return err
	}
	return validateText("task_description", *description, 1, 500)
}

func (in *TaskCreate) normalize() error {
	return normalizeTaskFields(&in.StartTime, &in.EndTime, &in.TaskDescription)
}

func (in *TaskUpdate) normalize() error {
	return normalizeTaskFields(&in.StartTime, &in.EndTime, &in.TaskDescription)
}

func (s *service) SearchTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	return s.repo.SearchTasks(ctx, filter)
}

func (s *service) GetTask(ctx context.Context, id int64) (Task, error) {
	return cachedLoad(ctx, s, cacheKey(EntityTask, id), func() (Task, error) {
		return s.repo.GetTask(ctx, id)
	})
}

// CreateTask создаёт задачу со статусом "Не выполнено". Цех берётся у начальника,
// найденного по WorkshopForemanID, а не из данных запроса.
func (s *service) CreateTask(ctx context.Context, in TaskCreate) (Task, error) {
	if err := in.normalize(); err != nil {
		return Task{}, err
	}

	var task Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		owner, err := NewValidator(repo).ResolveTaskForeman(ctx, in.WorkshopForemanID)
		if err != nil {
			return err
		}
		if in.ForemanID != owner.ID {
			if _, err := repo.GetForeman(ctx, in.ForemanID); err != nil {
				return err
			}
		}
		if _, err := repo.GetTechnician(ctx, in.TechnicianID); err != nil {
			return err
		}

		task = Task{
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			Workshop:        owner.Workshop,
			ForemanID:       in.ForemanID,
			TechnicianID:    in.TechnicianID,
			TaskDescription: in.TaskDescription,
			Status:          StatusNotDone,
			Important:       in.Important,
		}
		return repo.CreateTask(ctx, &task)
	})
	if err != nil {
		return Task{}, err
	}

	s.logger.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("foreman_id", task.ForemanID),
		slog.Int64("technician_id", task.TechnicianID),
	)
	s.publish(TaskCreated, task)
	return task, nil
}

func (s *service) UpdateTask(ctx context.Context, id int64, in TaskUpdate) (Task, error) {
	if err := in.normalize(); err != nil {
		return Task{}, err
	}

	task, err := s.repo.UpdateTask(ctx, id, in)
	if err != nil {
		return Task{}, err
	}

	s.refresh(ctx, cacheKey(EntityTask, id), task)
	s.publish(TaskUpdated, task)
	return task, nil
}

// UpdateTaskStatus меняет только статус задачи
func (s *service) UpdateTaskStatus(ctx context.Context, id int64, status string) (Task, error) {
	st, err := ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return Task{}, err
	}

	task, err := s.repo.UpdateTaskStatus(ctx, id, st)
	if err != nil {
		return Task{}, err
	}

	s.refresh(ctx, cacheKey(EntityTask, id), task)
	s.logger.Info("task status changed", slog.Int64("task_id", id), slog.String("status", string(st)))
	s.publish(TaskStatusChanged, task)
	return task, nil
}
