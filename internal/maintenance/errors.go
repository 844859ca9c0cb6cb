package maintenance

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

type Entity string

const (
	EntityForeman    Entity = "foreman"
	EntityTechnician Entity = "technician"
	EntityTask       Entity = "task"
)

// NotFoundError - запись с указанным идентификатором отсутствует
type NotFoundError struct {
	Entity Entity
	ID     int64
}

func (e *NotFoundError) Error() string {
	switch e.Entity {
	case EntityForeman:
		return fmt.Sprintf("Начальник цеха %d не найден", e.ID)
	case EntityTechnician:
		return fmt.Sprintf("Технический работник %d не найден", e.ID)
	case EntityTask:
		return fmt.Sprintf("Задача %d не найдена", e.ID)
	default:
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ConflictKind int

const (
	PhoneAlreadyAssignedToTechnician ConflictKind = iota + 1
	PhoneAlreadyAssignedToForeman
	WorkshopAlreadyManaged
	// UniqueViolation - ограничение уникальности сработало на уровне БД
	UniqueViolation
)

func (k ConflictKind) String() string {
	switch k {
	case PhoneAlreadyAssignedToTechnician:
		return "PhoneAlreadyAssignedToTechnician"
	case PhoneAlreadyAssignedToForeman:
		return "PhoneAlreadyAssignedToForeman"
	case WorkshopAlreadyManaged:
		return "WorkshopAlreadyManaged"
	case UniqueViolation:
		return "UniqueViolation"
	default:
		return fmt.Sprintf("ConflictKind(%d)", int(k))
	}
}

// ConflictError - запись нарушает уникальность телефона или закрепление цеха.
// OwnerID указывает на запись, которая уже владеет значением.
type ConflictError struct {
	Kind    ConflictKind
	OwnerID int64
	Detail  string
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case PhoneAlreadyAssignedToTechnician:
		return fmt.Sprintf("Номер телефона записан на технического работника %d", e.OwnerID)
	case PhoneAlreadyAssignedToForeman:
		return fmt.Sprintf("Номер телефона записан на начальника цеха %d", e.OwnerID)
	case WorkshopAlreadyManaged:
		return fmt.Sprintf("Цех находится под управлением начальника %d", e.OwnerID)
	default:
		if e.Detail != "" {
			return "Нарушено ограничение уникальности: " + e.Detail
		}
		return "Нарушено ограничение уникальности"
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError - входные данные не прошли проверку формата
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
