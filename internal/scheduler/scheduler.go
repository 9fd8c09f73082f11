package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketDigest/internal/collector"
	"MarketDigest/internal/logger"
	"MarketDigest/internal/model"
	"MarketDigest/internal/notifier"
	"MarketDigest/internal/recorder"
)

const historyLimit = 10

// Sender delivers a digest message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Recorder  recorder.Recorder
	Ctx       context.Context

	// refresh and digest jobs must not interleave their file writes and reads
	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger{}))),
		Collector: col,
		Notifier:  sender,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the data refresh and digest tasks.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() {
		if err := s.Refresh(); err != nil {
			s.trySend(fmt.Sprintf("❌ data refresh failed: %s", html.EscapeString(err.Error())))
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunDigestNow refreshes both series and sends the digest immediately.
func (s *Scheduler) RunDigestNow() {
	if err := s.Refresh(); err != nil {
		logger.Warn("refresh before digest failed, using stored series", zap.Error(err))
	}
	s.digestTask()
}

// Refresh fetches fresh data for both series. A failure in one does not stop
// the other.
func (s *Scheduler) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("running data refresh")
	var errs []error
	if err := s.Collector.RefreshFX(s.Ctx); err != nil {
		logger.Error("fx refresh failed", zap.Error(err))
		errs = append(errs, err)
	}
	if err := s.Collector.RefreshMarket(s.Ctx); err != nil {
		logger.Error("market refresh failed", zap.Error(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Scheduler) digestTask() {
	s.mu.Lock()
	fx := s.Collector.FXChanges()
	mkt := s.Collector.MarketChanges()
	s.mu.Unlock()

	logger.Info("running digest", zap.String("fx_status", fx.Status), zap.String("market_status", mkt.Status))
	s.record(collector.KindFX, &fx)
	s.record(collector.KindMarket, &mkt)

	s.trySend(notifier.FormatFX(&fx, s.Collector.FXConf.Pairs()))
	s.trySend(notifier.FormatMarket(&mkt))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/digest":
		s.digestTask()
		return ""
	case "/fx":
		res := s.Collector.FXChanges()
		return notifier.FormatFX(&res, s.Collector.FXConf.Pairs())
	case "/markets":
		res := s.Collector.MarketChanges()
		return notifier.FormatMarket(&res)
	case "/refresh":
		if err := s.Refresh(); err != nil {
			return fmt.Sprintf("❌ refresh failed: %s", html.EscapeString(err.Error()))
		}
		return "✅ FX and market data refreshed"
	case "/history":
		runs, err := s.Recorder.RecentRuns("", historyLimit)
		if err != nil {
			logger.Error("load run history", zap.Error(err))
			return "❌ could not load digest history"
		}
		return notifier.FormatRuns(runs)
	default:
		return "Available commands:\n" +
			"• /digest - send the full digest\n" +
			"• /fx - exchange rate changes\n" +
			"• /markets - market changes\n" +
			"• /refresh - fetch fresh data\n" +
			"• /history - recent digest runs"
	}
}

func (s *Scheduler) record(kind string, res *model.Result) {
	id, err := s.Recorder.RecordResult(kind, res)
	if err != nil {
		logger.Error("record digest result", zap.String("kind", kind), zap.Error(err))
		return
	}
	if id != "" {
		logger.Debug("digest result recorded", zap.String("kind", kind), zap.String("run_id", id))
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Get().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Get().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logger.Error("send notification", zap.Error(err))
	}
}
