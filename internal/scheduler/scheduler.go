package scheduler

import (
	"context"
	"time"
)

// Sweeper интерфейс уборки просроченных pending-резерваций
type Sweeper interface {
	SweepExpiredPending(ctx context.Context, grace time.Duration) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически запускает уборку просроченных резерваций
// Периодический прогон переживает рестарт процесса: состояние уборки
// целиком живет в БД, а не в памяти сервиса
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	grace    time.Duration
	logger   Logger
}

// New создает новый экземпляр планировщика
func New(sweeper Sweeper, interval, grace time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		grace:    grace,
		logger:   logger,
	}
}

// Run запускает цикл уборки; блокирует до отмены контекста
// Первый прогон выполняется сразу, чтобы подобрать хвосты после рестарта
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler: started, interval=%s, grace=%s", s.interval, s.grace)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	swept, err := s.sweeper.SweepExpiredPending(ctx, s.grace)
	if err != nil {
		s.logger.Error("Scheduler: sweep failed: %v", err)
		return
	}
	if swept > 0 {
		s.logger.Info("Scheduler: swept %d expired reservations", swept)
	}
}
