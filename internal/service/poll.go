package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/config"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/detector"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// PollService runs one polling cycle over all due tracked products:
// fetch, extract, detect, persist, notify. Per-product failures are
// isolated; only an unreachable persistence layer aborts a cycle.
type PollService struct {
	products   ProductStore
	states     StateStore
	failures   FailureStore
	fetcher    Fetcher
	parser     Parser
	dispatcher Dispatcher
	txManager  TransactionManager
	metrics    MetricsRecorder
	logger     *slog.Logger
	config     config.PollConfig

	// inflight guards the at-most-one-poll-per-product invariant when
	// cycles overlap. Holding it also makes per-product state writes
	// single-writer, so the stores need no row locking.
	mu       sync.Mutex
	inflight map[int64]struct{}

	now func() time.Time
}

func NewPollService(
	products ProductStore,
	states StateStore,
	failures FailureStore,
	fetcher Fetcher,
	parser Parser,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger *slog.Logger,
	cfg config.PollConfig,
) *PollService {
	return &PollService{
		products:   products,
		states:     states,
		failures:   failures,
		fetcher:    fetcher,
		parser:     parser,
		dispatcher: dispatcher,
		txManager:  txManager,
		metrics:    metrics,
		logger:     logger,
		config:     cfg,
		inflight:   make(map[int64]struct{}),
		now:        time.Now,
	}
}

// RunCycle polls every product that is not dormant and whose retry
// window has passed. Products are fetched concurrently under the
// configured ceiling; per-host pacing happens inside the fetcher.
func (s *PollService) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	start := s.now()

	products, err := s.products.ListDue(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list due products: %w", err)
	}

	stats := &domain.CycleStats{Due: int64(len(products))}
	if len(products) == 0 {
		s.logger.Debug("no products due for polling")
		return stats, nil
	}

	s.logger.Info("starting poll cycle", "due", len(products))

	sem := make(chan struct{}, s.config.Concurrency)
	var wg sync.WaitGroup

	for i := range products {
		product := products[i]

		if !s.acquire(product.ID) {
			// Still being polled by a previous cycle.
			atomic.AddInt64(&stats.Skipped, 1)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer s.release(product.ID)

			s.pollOne(ctx, &product, stats)
		}()
	}

	wg.Wait()

	stats.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordCycle(stats.Duration)
	}

	s.logger.Info("poll cycle completed",
		"due", stats.Due,
		"polled", stats.Polled,
		"changed", stats.Changed,
		"notified", stats.Notified,
		"failed", stats.Failed,
		"dormant", stats.Dormant,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *PollService) pollOne(ctx context.Context, product *domain.TrackedProduct, stats *domain.CycleStats) {
	page, err := s.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown, not a site problem: leave the failure record alone.
			return
		}
		s.recordFailure(ctx, product, err, stats)
		return
	}

	parsed, err := s.parser.Parse(product.Store, page)
	if err != nil {
		s.recordFailure(ctx, product, err, stats)
		return
	}

	last, err := s.states.GetLastKnown(ctx, product.ID)
	if err != nil {
		s.logger.Error("load last known state", "product_id", product.ID, "error", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	observedAt := s.now()
	event := detector.Detect(product, last, parsed, observedAt)

	obs := &domain.Observation{
		ProductID: product.ID,
		Title:     parsed.Title,
		Price:     parsed.Price,
		InStock:   parsed.InStock,
		FetchedAt: observedAt,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.states.SaveObservation(txCtx, obs); err != nil {
			return fmt.Errorf("save observation: %w", err)
		}
		return s.failures.Reset(txCtx, product.ID)
	})
	if err != nil {
		s.logger.Error("persist observation", "product_id", product.ID, "error", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	atomic.AddInt64(&stats.Polled, 1)
	if s.metrics != nil {
		s.metrics.RecordPoll("ok")
	}

	if event.Kind == domain.NoChange {
		return
	}

	atomic.AddInt64(&stats.Changed, 1)
	if s.metrics != nil {
		s.metrics.RecordChange(event.Kind)
	}

	// Fire and forget: a dead notification pipe must not fail polling.
	if err := s.dispatcher.Dispatch(ctx, &event); err != nil {
		s.logger.Warn("dispatch notification",
			"product_id", product.ID,
			"kind", event.Kind,
			"error", err,
		)
		return
	}
	atomic.AddInt64(&stats.Notified, 1)
}

func (s *PollService) recordFailure(ctx context.Context, product *domain.TrackedProduct, cause error, stats *domain.CycleStats) {
	atomic.AddInt64(&stats.Failed, 1)

	kind := failureKind(cause)
	if s.metrics != nil {
		s.metrics.RecordFailure(kind)
	}

	prev, err := s.failures.Get(ctx, product.ID)
	if err != nil {
		s.logger.Error("load failure record", "product_id", product.ID, "error", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	consecutive := 1
	if prev != nil {
		consecutive = prev.Consecutive + 1
	}

	rec := &domain.FailureRecord{
		ProductID:     product.ID,
		Consecutive:   consecutive,
		LastErrorKind: kind,
		NextRetryAt:   s.now().Add(s.retryDelay(consecutive)),
	}
	if err := s.failures.Upsert(ctx, rec); err != nil {
		s.logger.Error("update failure record", "product_id", product.ID, "error", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	s.logger.Warn("poll failed",
		"product_id", product.ID,
		"store", product.Store,
		"kind", kind,
		"consecutive", consecutive,
		"error", cause,
	)

	if consecutive >= s.config.DormancyThreshold {
		if err := s.products.MarkDormant(ctx, product.ID); err != nil {
			s.logger.Error("mark dormant", "product_id", product.ID, "error", err)
			atomic.AddInt64(&stats.Errors, 1)
			return
		}
		atomic.AddInt64(&stats.Dormant, 1)
		s.logger.Warn("product marked dormant",
			"product_id", product.ID,
			"consecutive", consecutive,
		)
	}
}

// retryDelay backs off exponentially with the consecutive failure
// count, starting at one poll interval and capped by RetryMaxDelay.
func (s *PollService) retryDelay(consecutive int) time.Duration {
	delay := s.config.RetryInitialDelay
	for i := 1; i < consecutive; i++ {
		delay *= 2
		if delay > s.config.RetryMaxDelay {
			return s.config.RetryMaxDelay
		}
	}
	return delay
}

func failureKind(err error) string {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	var extractErr *domain.ExtractionError
	if errors.As(err, &extractErr) {
		return "extract_" + string(extractErr.Reason)
	}
	return "internal"
}

func (s *PollService) acquire(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[productID]; busy {
		return false
	}
	s.inflight[productID] = struct{}{}
	return true
}

func (s *PollService) release(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, productID)
}
