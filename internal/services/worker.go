package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/repositories"
)

const pendingBatchSize = 10

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(id uuid.UUID)
}

type WorkerOptions struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
}

type worker struct {
	screenRepo   repositories.ScreeningRepository
	service      ScreeningService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	logger       *zap.Logger

	// inFlight holds ids sitting in jobQueue or being processed.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewWorker runs queued screenings on a fixed pool of goroutines. Jobs arrive
// through EnqueueJob or the pending job poller.
func NewWorker(
	screenRepo repositories.ScreeningRepository,
	service ScreeningService,
	opts WorkerOptions,
	log *zap.Logger,
) Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}

	return &worker{
		screenRepo:   screenRepo,
		service:      service,
		jobQueue:     make(chan uuid.UUID, opts.QueueSize),
		concurrency:  opts.Concurrency,
		pollInterval: opts.PollInterval,
		stopChan:     make(chan struct{}),
		inFlight:     make(map[uuid.UUID]struct{}),
		logger:       logger.OrNop(log).Named("worker"),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.logger.Info("worker started", zap.Int("concurrency", w.concurrency))
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueJob implements Worker. It never blocks: an id already in flight is
// ignored, and a full queue leaves the job queued for the poller.
func (w *worker) EnqueueJob(id uuid.UUID) {
	log := w.logger.With(zap.String(logger.FieldScreeningID, id.String()))

	select {
	case <-w.stopChan:
		log.Warn("worker stopped, job not enqueued")
		return
	default:
	}

	if !w.track(id) {
		log.Debug("job already in flight")
		return
	}

	select {
	case w.jobQueue <- id:
		log.Debug("job enqueued")
	default:
		w.release(id)
		log.Warn("job queue full, leaving job for the poller")
	}
}

func (w *worker) track(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inFlight[id]; ok {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *worker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inFlight, id)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.jobQueue:
			jobLog := log.With(zap.String(logger.FieldScreeningID, id.String()))
			if err := w.service.ProcessScreening(ctx, id); err != nil {
				jobLog.Error("screening job failed", zap.Error(err))
			} else {
				jobLog.Debug("screening job done")
			}
			w.release(id)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.screenRepo.FindPendingJobs(pendingBatchSize)
			if err != nil {
				w.logger.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.logger.Info("found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
