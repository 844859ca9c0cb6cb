package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	eventSendTimeout = 10 * time.Second
	eventQueueSize   = 256
)

type Service interface {
	ListForemen(ctx context.Context) ([]Foreman, error)
	GetForeman(ctx context.Context, id int64) (Foreman, error)
	CreateForeman(ctx context.Context, in ForemanCreate) (Foreman, error)
	UpdateForeman(ctx context.Context, id int64, in ForemanUpdate) (Foreman, error)

	ListTechnicians(ctx context.Context) ([]Technician, error)
	GetTechnician(ctx context.Context, id int64) (Technician, error)
	CreateTechnician(ctx context.Context, in TechnicianCreate) (Technician, error)
	UpdateTechnician(ctx context.Context, id int64, in TechnicianUpdate) (Technician, error)
	TechnicianTasks(ctx context.Context, technicianID int64) ([]Task, error)

	SearchTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	CreateTask(ctx context.Context, in TaskCreate) (Task, error)
	UpdateTask(ctx context.Context, id int64, in TaskUpdate) (Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status string) (Task, error)

	// Drain ждёт завершения отправки событий, начатых до вызова
	Drain()
}

type service struct {
	repo     Repository
	cache    Cache
	producer KafkaProducer
	logger   *slog.Logger

	// события отправляет одна горутина в порядке публикации
	events      chan TaskEvent
	startSender sync.Once
	pending     sync.WaitGroup
}

// NewService собирает сервис. cache и producer необязательны.
func NewService(repo Repository, cache Cache, producer KafkaProducer, logger *slog.Logger) Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
		events:   make(chan TaskEvent, eventQueueSize),
	}
}

func (s *service) Drain() {
	s.pending.Wait()
}

// publish ставит событие в очередь и не блокирует ответ, пока очередь не заполнена
func (s *service) publish(eventType TaskEventType, task Task) {
	if s.producer == nil {
		return
	}

	s.pending.Add(1)
	s.startSender.Do(func() { go s.sendEvents() })
	s.events <- NewTaskEvent(eventType, task)
}

func (s *service) sendEvents() {
	for event := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), eventSendTimeout)
		if err := s.producer.SendTaskEvent(ctx, event); err != nil {
			s.logger.Warn("failed to send task event",
				slog.Int64("task_id", event.TaskID),
				slog.String("type", string(event.Type)),
				slog.Any("error", err),
			)
		}
		cancel()
		s.pending.Done()
	}
}

func (s *service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

// refresh кладёт в кэш запись, прочитанную после коммита.
// Если записать не удалось, ключ удаляется.
func (s *service) refresh(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
		s.invalidate(ctx, key)
	}
}

// cachedLoad читает запись из кэша, а при промахе - через load.
// Результат сохраняется только если ключ ещё пуст: запись, положенную
// refresh после обновления, устаревшее чтение не перетрёт.
func cachedLoad[T any](ctx context.Context, s *service, key string, load func() (T, error)) (T, error) {
	var cached T
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := s.cache.SetIfAbsent(ctx, key, value); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return value, nil
}
