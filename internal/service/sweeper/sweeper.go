// Package sweeper schedules the periodic expiry sweep that moves finished
// bookings to completed and releases their facilities.
package sweeper

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// BookingSweeper интерфейс сервиса броней для sweep-прохода
type BookingSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service периодически запускает sweep по cron-расписанию.
// Запуски не накладываются: пока проход не завершился, следующий пропускается.
type Service struct {
	cron    *cron.Cron
	sweeper BookingSweeper
	spec    string
	logger  Logger
}

// New создает sweeper с cron-расписанием spec (например "@every 1m")
func New(sweeper BookingSweeper, spec string, logger Logger) *Service {
	return &Service{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		sweeper: sweeper,
		spec:    spec,
		logger:  logger,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return fmt.Errorf("sweeper: invalid schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("sweeper: started with schedule %q", s.spec)
	return nil
}

// Stop останавливает планировщик и возвращает контекст,
// закрывающийся после завершения текущего прохода
func (s *Service) Stop() context.Context {
	s.logger.Info("sweeper: stopping")
	return s.cron.Stop()
}

func (s *Service) run() {
	n, err := s.sweeper.SweepExpired(context.Background())
	if err != nil {
		s.logger.Error("sweeper: sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.logger.Info("sweeper: completed %d expired bookings", n)
	}
}
