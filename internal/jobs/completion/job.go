package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout ограничение на один прогон задачи
const runTimeout = 30 * time.Second

// AppointmentRepository закрывает завершившиеся записи
type AppointmentRepository interface {
	CompleteFinished(ctx context.Context, now time.Time) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодически переводит подтвержденные записи, время которых прошло, в completed
type Job struct {
	repo     AppointmentRepository
	location *time.Location
	logger   Logger
	cron     *cron.Cron
	now      func() time.Time
}

// NewJob создает задачу; schedule в формате robfig/cron ("@every 10m", "*/5 * * * *")
func NewJob(repo AppointmentRepository, schedule string, location *time.Location, logger Logger) (*Job, error) {
	if location == nil {
		location = time.UTC
	}

	j := &Job{
		repo:     repo,
		location: location,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(location)),
		now:      time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}

	return j, nil
}

// Start запускает расписание в фоне
func (j *Job) Start() {
	j.logger.Info("Completion job started")
	j.cron.Start()
}

// Stop останавливает расписание и ждет завершения текущего прогона
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Completion job stopped")
}

// RunOnce выполняет один прогон и возвращает число закрытых записей
func (j *Job) RunOnce(ctx context.Context) (int64, error) {
	return j.repo.CompleteFinished(ctx, j.now().In(j.location))
}

func (j *Job) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	completed, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Completion job failed: %v", err)
		return
	}
	if completed > 0 {
		j.logger.Info("Completion job: %d appointments marked as completed", completed)
	}
}
