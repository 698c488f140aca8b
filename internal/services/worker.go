package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/repositories"
)

const (
	jobQueueSize    = 100
	pendingJobBatch = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	analyzer     AnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	inFlightMu   sync.Mutex
	inFlight     map[uuid.UUID]struct{}
	log          *zap.Logger
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	analyzer AnalyzerService,
	concurrency int,
	pollInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, jobQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		inFlight:     make(map[uuid.UUID]struct{}),
		log:          log,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 Starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("✅ Worker started")
}

// Stop implements Worker. It waits for in-flight jobs to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("🛑 Stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. An analysis that is already queued or running
// in this worker is not enqueued again.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.log.Warn("⚠️ Worker stopped, cannot enqueue job", zap.Stringer("analysis_id", analysisID))
		return
	default:
	}

	if !w.track(analysisID) {
		w.log.Debug("⏭️ Job already in flight", zap.Stringer("analysis_id", analysisID))
		return
	}

	select {
	case w.jobQueue <- analysisID:
		w.log.Debug("📥 Job enqueued", zap.Stringer("analysis_id", analysisID))
	case <-w.stopChan:
		w.untrack(analysisID)
		w.log.Warn("⚠️ Worker stopped, cannot enqueue job", zap.Stringer("analysis_id", analysisID))
	}
}

func (w *worker) track(analysisID uuid.UUID) bool {
	w.inFlightMu.Lock()
	defer w.inFlightMu.Unlock()
	if _, ok := w.inFlight[analysisID]; ok {
		return false
	}
	w.inFlight[analysisID] = struct{}{}
	return true
}

func (w *worker) untrack(analysisID uuid.UUID) {
	w.inFlightMu.Lock()
	defer w.inFlightMu.Unlock()
	delete(w.inFlight, analysisID)
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case analysisID := <-w.jobQueue:
			w.runJob(ctx, log, analysisID)
		}
	}
}

func (w *worker) runJob(ctx context.Context, log *zap.Logger, analysisID uuid.UUID) {
	defer w.untrack(analysisID)

	log.Info("👷 Processing job", zap.Stringer("analysis_id", analysisID))
	err := w.analyzer.AnalyzeResume(ctx, analysisID)
	switch {
	case errors.Is(err, ErrAnalysisNotQueued):
		log.Debug("⏭️ Job already claimed", zap.Stringer("analysis_id", analysisID))
	case err != nil:
		log.Error("❌ Job failed", zap.Stringer("analysis_id", analysisID), zap.Error(err))
	default:
		log.Info("✅ Job completed", zap.Stringer("analysis_id", analysisID))
	}
}

// pollPendingJobs re-enqueues queued analyses, which covers jobs accepted
// before a restart or dropped while the queue was full.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			w.log.Debug("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.analysisRepo.FindPendingJobs(ctx, pendingJobBatch)
			if err != nil {
				w.log.Warn("⚠️ Failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("📋 Found pending jobs", zap.Int("count", len(pending)))
			}

			for _, job := range pending {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
