package maintenance

import (
	"context"
	"errors"
	"fmt"
)

// OwnerLookup - чтения, на которых строятся проверки инвариантов.
// Реализуется репозиторием; внутри Atomic вызовы идут в той же транзакции.
type OwnerLookup interface {
	ForemanIDByPhone(ctx context.Context, phone string) (int64, bool, error)
	TechnicianIDByPhone(ctx context.Context, phone string) (int64, bool, error)
	ForemanIDByWorkshop(ctx context.Context, workshop string) (int64, bool, error)
	GetForeman(ctx context.Context, id int64) (Foreman, error)
}

// PersonRef - запись, от имени которой выполняется проверка.
// ID == 0 при создании: новая запись ни с чем не совпадает.
type PersonRef struct {
	Entity Entity
	ID     int64
}

func (p PersonRef) owns(entity Entity, id int64) bool {
	return p.ID != 0 && p.Entity == entity && p.ID == id
}

// Validator проверяет инварианты, которые нельзя выразить ограничениями одной таблицы
type Validator struct {
	lookup OwnerLookup
}

func NewValidator(lookup OwnerLookup) Validator {
	return Validator{lookup: lookup}
}

type phoneCheck func(ctx context.Context, phone string, self PersonRef) error

// ValidatePersonPhone проверяет, что номер не занят ни начальником цеха, ни техническим
// работником (кроме самой записи self). Для начальника сначала проверяются технические
// работники, для технического работника - начальники: от порядка зависит текст ошибки.
func (v Validator) ValidatePersonPhone(ctx context.Context, phone string, self PersonRef) error {
	var checks []phoneCheck
	switch self.Entity {
	case EntityForeman:
		checks = []phoneCheck{v.checkTechnicianPhone, v.checkForemanPhone}
	case EntityTechnician:
		checks = []phoneCheck{v.checkForemanPhone, v.checkTechnicianPhone}
	default:
		return fmt.Errorf("phone check for unsupported entity %q", self.Entity)
	}

	for _, check := range checks {
		if err := check(ctx, phone, self); err != nil {
			return err
		}
	}
	return nil
}

func (v Validator) checkTechnicianPhone(ctx context.Context, phone string, self PersonRef) error {
	id, found, err := v.lookup.TechnicianIDByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("lookup technician by phone: %w", err)
	}
	if found && !self.owns(EntityTechnician, id) {
		return &ConflictError{Kind: PhoneAlreadyAssignedToTechnician, OwnerID: id}
	}
	return nil
}

func (v Validator) checkForemanPhone(ctx context.Context, phone string, self PersonRef) error {
	id, found, err := v.lookup.ForemanIDByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("lookup foreman by phone: %w", err)
	}
	if found && !self.owns(EntityForeman, id) {
		return &ConflictError{Kind: PhoneAlreadyAssignedToForeman, OwnerID: id}
	}
	return nil
}

// ValidateWorkshopExclusivity проверяет, что цехом не управляет другой начальник.
// Пустой цех ("не назначен") никогда не конфликтует.
func (v Validator) ValidateWorkshopExclusivity(ctx context.Context, workshop string, excludeForemanID int64) error {
	if workshop == "" {
		return nil
	}

	id, found, err := v.lookup.ForemanIDByWorkshop(ctx, workshop)
	if err != nil {
		return fmt.Errorf("lookup foreman by workshop: %w", err)
	}
	if found && !(excludeForemanID != 0 && id == excludeForemanID) {
		return &ConflictError{Kind: WorkshopAlreadyManaged, OwnerID: id}
	}
	return nil
}

// ResolveTaskForeman находит начальника цеха по ключу из поля "workshop" запроса
// на создание задачи. В задачу сохраняется текущий цех найденного начальника.
func (v Validator) ResolveTaskForeman(ctx context.Context, foremanKey int64) (Foreman, error) {
	foreman, err := v.lookup.GetForeman(ctx, foremanKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Foreman{}, &NotFoundError{Entity: EntityForeman, ID: foremanKey}
		}
		return Foreman{}, fmt.Errorf("resolve task foreman: %w", err)
	}
	return foreman, nil
}
