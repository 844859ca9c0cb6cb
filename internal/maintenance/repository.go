package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ключ advisory-блокировки, под которой выполняются проверки и запись
const registryLockKey int64 = 7_302_016

const uniqueViolationCode = "23505"

type Repository interface {
	OwnerLookup

	ListForemen(ctx context.Context) ([]Foreman, error)
	CreateForeman(ctx context.Context, f *Foreman) error
	UpdateForeman(ctx context.Context, id int64, u ForemanUpdate) (Foreman, error)

	ListTechnicians(ctx context.Context) ([]Technician, error)
	GetTechnician(ctx context.Context, id int64) (Technician, error)
	CreateTechnician(ctx context.Context, t *Technician) error
	UpdateTechnician(ctx context.Context, id int64, u TechnicianUpdate) (Technician, error)

	GetTask(ctx context.Context, id int64) (Task, error)
	CreateTask(ctx context.Context, t *Task) error
	UpdateTask(ctx context.Context, id int64, u TaskUpdate) (Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status Status) (Task, error)
	TasksByTechnician(ctx context.Context, technicianID int64) ([]Task, error)
	SearchTasks(ctx context.Context, filter TaskFilter) ([]Task, error)

	// Atomic выполняет fn в одной транзакции под общей блокировкой записи,
	// чтобы проверка и вставка не разделялись конкурентными запросами.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Atomic(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", registryLockKey).Error; err != nil {
			return fmt.Errorf("acquire registry lock: %w", err)
		}
		return fn(&repository{db: tx})
	})
}

func (r *repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&Foreman{}, &Technician{}, &Task{})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Начальники цехов

func (r *repository) ListForemen(ctx context.Context) ([]Foreman, error) {
	foremen := make([]Foreman, 0)
	if err := r.db.WithContext(ctx).Order("foreman_id ASC").Find(&foremen).Error; err != nil {
		return nil, err
	}
	return foremen, nil
}

func (r *repository) GetForeman(ctx context.Context, id int64) (Foreman, error) {
	var foreman Foreman
	err := r.db.WithContext(ctx).First(&foreman, "foreman_id = ?", id).Error
	if err != nil {
		return Foreman{}, notFound(err, EntityForeman, id)
	}
	return foreman, nil
}

func (r *repository) CreateForeman(ctx context.Context, f *Foreman) error {
	return translateError(r.db.WithContext(ctx).Create(f).Error)
}

func (r *repository) UpdateForeman(ctx context.Context, id int64, u ForemanUpdate) (Foreman, error) {
	res := r.db.WithContext(ctx).Model(&Foreman{}).Where("foreman_id = ?", id).Updates(map[string]interface{}{
		"full_name":    u.FullName,
		"workshop":     u.Workshop,
		"phone_number": u.PhoneNumber,
	})
	if res.Error != nil {
		return Foreman{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return Foreman{}, &NotFoundError{Entity: EntityForeman, ID: id}
	}
	return r.GetForeman(ctx, id)
}

func (r *repository) ForemanIDByPhone(ctx context.Context, phone string) (int64, bool, error) {
	return r.findID(ctx, &Foreman{}, "foreman_id", "phone_number = ?", phone)
}

func (r *repository) ForemanIDByWorkshop(ctx context.Context, workshop string) (int64, bool, error) {
	return r.findID(ctx, &Foreman{}, "foreman_id", "workshop = ?", workshop)
}

// Технические работники

func (r *repository) ListTechnicians(ctx context.Context) ([]Technician, error) {
	technicians := make([]Technician, 0)
	if err := r.db.WithContext(ctx).Order("technician_id ASC").Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

func (r *repository) GetTechnician(ctx context.Context, id int64) (Technician, error) {
	var technician Technician
	err := r.db.WithContext(ctx).First(&technician, "technician_id = ?", id).Error
	if err != nil {
		return Technician{}, notFound(err, EntityTechnician, id)
	}
	return technician, nil
}

func (r *repository) CreateTechnician(ctx context.Context, t *Technician) error {
	return translateError(r.db.WithContext(ctx).Create(t).Error)
}

func (r *repository) UpdateTechnician(ctx context.Context, id int64, u TechnicianUpdate) (Technician, error) {
	res := r.db.WithContext(ctx).Model(&Technician{}).Where("technician_id = ?", id).Updates(map[string]interface{}{
		"specialization": u.Specialization,
		"full_name":      u.FullName,
		"phone_number":   u.PhoneNumber,
	})
	if res.Error != nil {
		return Technician{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return Technician{}, &NotFoundError{Entity: EntityTechnician, ID: id}
	}
	return r.GetTechnician(ctx, id)
}

func (r *repository) TechnicianIDByPhone(ctx context.Context, phone string) (int64, bool, error) {
	return r.findID(ctx, &Technician{}, "technician_id", "phone_number = ?", phone)
}

// Задачи

func (r *repository) GetTask(ctx context.Context, id int64) (Task, error) {
	var task Task
	err := r.db.WithContext(ctx).First(&task, "task_id = ?", id).Error
	if err != nil {
		return Task{}, notFound(err, EntityTask, id)
	}
	return task, nil
}

func (r *repository) CreateTask(ctx context.Context, t *Task) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error)
}

func (r *repository) UpdateTask(ctx context.Context, id int64, u TaskUpdate) (Task, error) {
	// foreman_id, technician_id и status этим путём не меняются
	return r.updateTask(ctx, id, map[string]interface{}{
		"start_time":       u.StartTime,
		"end_time":         u.EndTime,
		"task_description": u.TaskDescription,
		"important":        u.Important,
	})
}

func (r *repository) UpdateTaskStatus(ctx context.Context, id int64, status Status) (Task, error) {
	return r.updateTask(ctx, id, map[string]interface{}{"status": status})
}

func (r *repository) updateTask(ctx context.Context, id int64, fields map[string]interface{}) (Task, error) {
	res := r.db.WithContext(ctx).Model(&Task{}).Where("task_id = ?", id).Updates(fields)
	if res.Error != nil {
		return Task{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return Task{}, &NotFoundError{Entity: EntityTask, ID: id}
	}
	return r.GetTask(ctx, id)
}

func (r *repository) TasksByTechnician(ctx context.Context, technicianID int64) ([]Task, error) {
	tasks := make([]Task, 0)
	err := r.db.WithContext(ctx).
		Where("technician_id = ?", technicianID).
		Order("task_id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) SearchTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	scope, err := filter.Scope()
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0)
	if err := r.db.WithContext(ctx).Scopes(scope).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) findID(ctx context.Context, model interface{}, column, query string, args ...interface{}) (int64, bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Pluck(column, &ids).Error
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func notFound(err error, entity Entity, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// translateError превращает нарушение UNIQUE в ConflictError; остальное возвращается как есть
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &ConflictError{Kind: UniqueViolation, Detail: pgErr.ConstraintName}
	}
	return err
}
