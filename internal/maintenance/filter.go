package maintenance

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	filterDateLayout = "02.01.2006"
	// формат start_time на стороне PostgreSQL, соответствует DateTimeLayout
	sqlDateTimeFormat = "DD.MM.YYYY HH24:MI"
)

var (
	defaultDateStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	defaultDateEnd   = time.Date(2033, time.December, 31, 23, 59, 0, 0, time.UTC)
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskFilter - критерии поиска задач. Пустая строка означает "без фильтра".
type TaskFilter struct {
	DateStart      string
	DateEnd        string
	Workshop       string
	TechnicianName string
	ForemanName    string
	Status         string
}

// Scope строит запрос по technician_tasks JOIN technicians JOIN foremen.
// Все значения из фильтра передаются только параметрами.
func (f TaskFilter) Scope() (func(*gorm.DB) *gorm.DB, error) {
	from, err := parseDateBound("date_start", f.DateStart, defaultDateStart, false)
	if err != nil {
		return nil, err
	}
	to, err := parseDateBound("date_end", f.DateEnd, defaultDateEnd, true)
	if err != nil {
		return nil, err
	}

	return func(db *gorm.DB) *gorm.DB {
		return db.Table("technician_tasks").
			Select("technician_tasks.*").
			Joins("JOIN technicians ON technicians.technician_id = technician_tasks.technician_id").
			Joins("JOIN foremen ON foremen.foreman_id = technician_tasks.foreman_id").
			Where("technician_tasks.workshop LIKE ?", likeContains(f.Workshop)).
			Where("foremen.full_name LIKE ?", likeContains(f.ForemanName)).
			Where("technicians.full_name LIKE ?", likeContains(f.TechnicianName)).
			Where("technician_tasks.status LIKE ?", likeContains(f.Status)).
			Where(
				"to_timestamp(technician_tasks.start_time, ?) BETWEEN to_timestamp(?, ?) AND to_timestamp(?, ?)",
				sqlDateTimeFormat,
				from.Format(DateTimeLayout), sqlDateTimeFormat,
				to.Format(DateTimeLayout), sqlDateTimeFormat,
			).
			Order("technician_tasks.task_id DESC")
	}, nil
}

// parseDateBound принимает "ДД.ММ.ГГГГ ЧЧ:ММ" или "ДД.ММ.ГГГГ".
// Дата без времени в верхней границе означает конец этого дня.
func parseDateBound(field, value string, fallback time.Time, upper bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(DateTimeLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(filterDateLayout, value); err == nil {
		if upper {
			t = t.Add(24*time.Hour - time.Minute)
		}
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: field, Message: "неверный формат даты (ДД.ММ.ГГГГ или ДД.ММ.ГГГГ ЧЧ:ММ)"}
}

// likeContains превращает подстроку в шаблон LIKE; пустая строка совпадает со всем
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
