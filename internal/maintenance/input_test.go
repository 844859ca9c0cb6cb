package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	for _, phone := range []string{"89990001111", "00000000000"} {
		assert.NoError(t, ValidatePhone(phone), phone)
	}
	for _, phone := range []string{"", "8999000111", "899900011112", "+7999000111", "8999000111a", "8 999 000 11"} {
		err := ValidatePhone(phone)
		assert.True(t, errors.Is(err, ErrValidation), phone)
	}
}

func TestValidateGender(t *testing.T) {
	assert.NoError(t, ValidateGender(GenderMale))
	assert.NoError(t, ValidateGender(GenderFemale))
	assert.Error(t, ValidateGender("M"))
	assert.Error(t, ValidateGender(""))
}

func TestParseStatus(t *testing.T) {
	for _, st := range []Status{StatusNotDone, StatusInProgress, StatusDone, StatusCancelled} {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseStatus("выполнено")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Field)
}

func TestValidateDateTime(t *testing.T) {
	assert.NoError(t, ValidateDateTime("start_time", "29.02.2024 23:59"))
	assert.Error(t, ValidateDateTime("start_time", "29.02.2023 10:00"))
	assert.Error(t, ValidateDateTime("start_time", "01.03.2024"))
	assert.Error(t, ValidateDateTime("start_time", "2024-03-01T08:00"))
}

func TestValidateTextCountsRunes(t *testing.T) {
	assert.NoError(t, validateText("full_name", strings.Repeat("Ж", 100), 1, 100))
	assert.Error(t, validateText("full_name", strings.Repeat("Ж", 101), 1, 100))
	assert.Error(t, validateText("full_name", " ", 1, 100))
	assert.NoError(t, validateText("workshop", "", 0, 50))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Цех 1", SanitizeString("  Цех\x00 1\x7f\n"))
	assert.Equal(t, "", SanitizeString("\t\r\n"))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
		is   error
	}{
		{&NotFoundError{Entity: EntityForeman, ID: 3}, "Начальник цеха 3 не найден", ErrNotFound},
		{&NotFoundError{Entity: EntityTechnician, ID: 4}, "Технический работник 4 не найден", ErrNotFound},
		{&NotFoundError{Entity: EntityTask, ID: 5}, "Задача 5 не найдена", ErrNotFound},
		{&ConflictError{Kind: PhoneAlreadyAssignedToTechnician, OwnerID: 6}, "Номер телефона записан на технического работника 6", ErrConflict},
		{&ConflictError{Kind: PhoneAlreadyAssignedToForeman, OwnerID: 7}, "Номер телефона записан на начальника цеха 7", ErrConflict},
		{&ConflictError{Kind: WorkshopAlreadyManaged, OwnerID: 8}, "Цех находится под управлением начальника 8", ErrConflict},
		{&ConflictError{Kind: UniqueViolation, Detail: "idx_foremen_workshop"}, "Нарушено ограничение уникальности: idx_foremen_workshop", ErrConflict},
		{&ValidationError{Field: "gender", Message: "bad"}, "gender: bad", ErrValidation},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", tt.err), tt.is))
	}

	assert.False(t, errors.Is(&NotFoundError{}, ErrConflict))
	assert.Equal(t, "WorkshopAlreadyManaged", WorkshopAlreadyManaged.String())
}

func TestNewTaskEvent(t *testing.T) {
	task := Task{ID: 9, ForemanID: 1, TechnicianID: 2, Workshop: "Cutting", Status: StatusInProgress, Important: true}

	first := NewTaskEvent(TaskStatusChanged, task)
	second := NewTaskEvent(TaskStatusChanged, task)

	assert.NotEqual(t, first.EventID, second.EventID)
	assert.Equal(t, int64(9), first.TaskID)
	assert.Equal(t, "В процессе", first.Status)
	assert.False(t, first.Timestamp.IsZero())
}

func TestCacheKeyAndNoopCache(t *testing.T) {
	assert.Equal(t, "maintenance:foreman:12", cacheKey(EntityForeman, 12))
	assert.Equal(t, "maintenance:task:3", cacheKey(EntityTask, 3))

	cache := NewNoopCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", Foreman{ID: 1}))
	require.NoError(t, cache.SetIfAbsent(ctx, "k", Foreman{ID: 1}))

	var got Foreman
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "k"))
}
