package maintenance

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// фейки реализуют интерфейсы пакета
var (
	_ Repository    = (*fakeRepository)(nil)
	_ Cache         = (*fakeCache)(nil)
	_ KafkaProducer = (*fakeProducer)(nil)
)

// fakeRepository - репозиторий в памяти для тестов сервиса и обработчиков
type fakeRepository struct {
	mu   sync.Mutex
	txMu sync.Mutex

	foremen     map[int64]Foreman
	technicians map[int64]Technician
	tasks       map[int64]Task

	nextForemanID    int64
	nextTechnicianID int64
	nextTaskID       int64

	getForemanCalls int
	atomicCalls     int
	err             error

	// вызывается после чтения начальника, вне блокировки
	afterGetForeman func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		foremen:     make(map[int64]Foreman),
		technicians: make(map[int64]Technician),
		tasks:       make(map[int64]Task),
	}
}

func (f *fakeRepository) seedForeman(fm Foreman) Foreman {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fm.ID == 0 {
		f.nextForemanID++
		fm.ID = f.nextForemanID
	} else if fm.ID > f.nextForemanID {
		f.nextForemanID = fm.ID
	}
	f.foremen[fm.ID] = fm
	return fm
}

func (f *fakeRepository) seedTechnician(t Technician) Technician {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		f.nextTechnicianID++
		t.ID = f.nextTechnicianID
	} else if t.ID > f.nextTechnicianID {
		f.nextTechnicianID = t.ID
	}
	f.technicians[t.ID] = t
	return t
}

func (f *fakeRepository) seedTask(t Task) Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTaskID++
	t.ID = f.nextTaskID
	if t.Status == "" {
		t.Status = StatusNotDone
	}
	f.tasks[t.ID] = t
	return t
}

func (f *fakeRepository) Atomic(ctx context.Context, fn func(repo Repository) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	f.mu.Lock()
	f.atomicCalls++
	f.mu.Unlock()
	return fn(f)
}

func (f *fakeRepository) Migrate(context.Context) error { return f.err }
func (f *fakeRepository) Ping(context.Context) error    { return f.err }

func (f *fakeRepository) ListForemen(context.Context) ([]Foreman, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Foreman, 0, len(f.foremen))
	for _, fm := range f.foremen {
		out = append(out, fm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepository) GetForeman(_ context.Context, id int64) (Foreman, error) {
	f.mu.Lock()
	f.getForemanCalls++
	fm, ok := f.foremen[id]
	err := f.err
	hook := f.afterGetForeman
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return Foreman{}, err
	}
	if !ok {
		return Foreman{}, &NotFoundError{Entity: EntityForeman, ID: id}
	}
	return fm, nil
}

func (f *fakeRepository) CreateForeman(_ context.Context, fm *Foreman) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextForemanID++
	fm.ID = f.nextForemanID
	f.foremen[fm.ID] = *fm
	return nil
}

func (f *fakeRepository) UpdateForeman(_ context.Context, id int64, u ForemanUpdate) (Foreman, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fm, ok := f.foremen[id]
	if !ok {
		return Foreman{}, &NotFoundError{Entity: EntityForeman, ID: id}
	}
	fm.FullName, fm.Workshop, fm.PhoneNumber = u.FullName, u.Workshop, u.PhoneNumber
	f.foremen[id] = fm
	return fm, nil
}

func (f *fakeRepository) ForemanIDByPhone(_ context.Context, phone string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	return lowestID(f.foremen, func(fm Foreman) bool { return fm.PhoneNumber == phone })
}

func (f *fakeRepository) ForemanIDByWorkshop(_ context.Context, workshop string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	return lowestID(f.foremen, func(fm Foreman) bool { return fm.Workshop == workshop })
}

func (f *fakeRepository) ListTechnicians(context.Context) ([]Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Technician, 0, len(f.technicians))
	for _, t := range f.technicians {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepository) GetTechnician(_ context.Context, id int64) (Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.technicians[id]
	if !ok {
		return Technician{}, &NotFoundError{Entity: EntityTechnician, ID: id}
	}
	return t, nil
}

func (f *fakeRepository) CreateTechnician(_ context.Context, t *Technician) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTechnicianID++
	t.ID = f.nextTechnicianID
	f.technicians[t.ID] = *t
	return nil
}

func (f *fakeRepository) UpdateTechnician(_ context.Context, id int64, u TechnicianUpdate) (Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.technicians[id]
	if !ok {
		return Technician{}, &NotFoundError{Entity: EntityTechnician, ID: id}
	}
	t.Specialization, t.FullName, t.PhoneNumber = u.Specialization, u.FullName, u.PhoneNumber
	f.technicians[id] = t
	return t, nil
}

func (f *fakeRepository) TechnicianIDByPhone(_ context.Context, phone string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	return lowestID(f.technicians, func(t Technician) bool { return t.PhoneNumber == phone })
}

func (f *fakeRepository) GetTask(_ context.Context, id int64) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: EntityTask, ID: id}
	}
	return t, nil
}

func (f *fakeRepository) CreateTask(_ context.Context, t *Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTaskID++
	t.ID = f.nextTaskID
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeRepository) UpdateTask(_ context.Context, id int64, u TaskUpdate) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: EntityTask, ID: id}
	}
	t.StartTime, t.EndTime, t.TaskDescription, t.Important = u.StartTime, u.EndTime, u.TaskDescription, u.Important
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRepository) UpdateTaskStatus(_ context.Context, id int64, status Status) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: EntityTask, ID: id}
	}
	t.Status = status
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRepository) TasksByTechnician(_ context.Context, technicianID int64) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Task, 0)
	for _, t := range f.tasks {
		if t.TechnicianID == technicianID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// SearchTasks применяет фильтр в памяти с той же семантикой подстрок и дат,
// что и SQL из TaskFilter.Scope
func (f *fakeRepository) SearchTasks(_ context.Context, filter TaskFilter) ([]Task, error) {
	from, err := parseDateBound("date_start", filter.DateStart, defaultDateStart, false)
	if err != nil {
		return nil, err
	}
	to, err := parseDateBound("date_end", filter.DateEnd, defaultDateEnd, true)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Task, 0)
	for _, t := range f.tasks {
		start, err := time.Parse(DateTimeLayout, t.StartTime)
		if err != nil || start.Before(from) || start.After(to) {
			continue
		}
		if !strings.Contains(t.Workshop, filter.Workshop) ||
			!strings.Contains(string(t.Status), filter.Status) ||
			!strings.Contains(f.foremen[t.ForemanID].FullName, filter.ForemanName) ||
			!strings.Contains(f.technicians[t.TechnicianID].FullName, filter.TechnicianName) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepository) foremanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.foremen)
}

func lowestID[T any](rows map[int64]T, match func(T) bool) (int64, bool, error) {
	var (
		best  int64
		found bool
	)
	for id, row := range rows {
		if match(row) && (!found || id < best) {
			best, found = id, true
		}
	}
	return best, found, nil
}

// fakeCache - кэш на map, запоминает удалённые ключи
type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *fakeCache) SetIfAbsent(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		c.data[key] = raw
	}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *fakeCache) get(key string, dst interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	return ok && json.Unmarshal(raw, dst) == nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// fakeProducer собирает отправленные события
type fakeProducer struct {
	mu     sync.Mutex
	events []TaskEvent
	err    error
	delay  func()
}

func (p *fakeProducer) SendTaskEvent(_ context.Context, event TaskEvent) error {
	if p.delay != nil {
		p.delay()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) sent() []TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TaskEvent(nil), p.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
