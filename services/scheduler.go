package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const completionTimeout = time.Minute

// StayScheduler periodically completes confirmed stays whose check-out has
// passed.
type StayScheduler struct {
	cron     *cron.Cron
	bookings BookingService
	logger   *zap.Logger
	now      func() time.Time
	ctx      context.Context
}

// NewStayScheduler parses spec (standard five-field cron or a descriptor
// such as "@hourly") and registers the completion job.
func NewStayScheduler(spec string, bookings BookingService, logger *zap.Logger) (*StayScheduler, error) {
	cronLog := cronLogger{logger.Sugar()}
	s := &StayScheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
		ctx:      context.Background(),
	}

	if _, err := s.cron.AddFunc(spec, s.runJob); err != nil {
		return nil, fmt.Errorf("scheduling stay completion %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits
// for a running job to finish.
func (s *StayScheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("Stay completion scheduler started")

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Stay completion scheduler stopped")
	return nil
}

// RunOnce completes finished stays immediately.
func (s *StayScheduler) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()
	return s.bookings.CompleteFinishedStays(ctx, s.now())
}

func (s *StayScheduler) runJob() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		s.logger.Error("Stay completion failed", zap.Error(err))
	}
}

// cronLogger routes cron's own messages into zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
