package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmaksimov/startup-pulse/app/cfg"
	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/sources"
	"github.com/dmaksimov/startup-pulse/app/stories"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	storyRepo        database.StoryRepository
	configCache      *sources.ConfigCache
	httpClient       *http.Client
	parser           *sources.Parser
	linker           *stories.Linker
	summaryExtractor *stories.SummaryExtractor
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface

	// nextRun tracks per-source refresh deadlines; a missing entry means the
	// source is due immediately
	nextRun   map[string]time.Time
	nextRunMu sync.Mutex
}

func NewScheduler(configCache *sources.ConfigCache, storyRepo database.StoryRepository,
	httpClient *http.Client, parser *sources.Parser, linker *stories.Linker,
	summaryExtractor *stories.SummaryExtractor) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		storyRepo:        storyRepo,
		configCache:      configCache,
		httpClient:       httpClient,
		parser:           parser,
		linker:           linker,
		summaryExtractor: summaryExtractor,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
		nextRun:          make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

// Stop cancels the scheduler context and waits for the workers. taskQueue is
// left open: retry goroutines can outlive the workers, and their enqueue must
// fail via the context rather than panic on a closed channel.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	// Checked first so a stopped scheduler always rejects the task, even when
	// the queue has room
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	now := time.Now().UTC()
	extractWanted := false

	for _, sourceConfig := range sourceConfigs {
		if sourceConfig.Settings.ExtractSummary {
			extractWanted = true
		}

		if !s.markDue(sourceConfig, now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name)
			continue
		}

		ingestTask := NewIngestSourceTask(sourceConfig.Name, sourceConfig, s.httpClient, s.parser, s.storyRepo, s.linker, s.userAgent)
		if err := s.EnqueueTask(ingestTask); err != nil {
			slog.Warn("Failed to enqueue IngestSourceTask", "source", sourceConfig.Name, "error", err)
		}
	}

	if extractWanted {
		extractTask := NewExtractSummaryTask(s.httpClient, s.summaryExtractor, s.storyRepo, s.userAgent, 30*time.Second)
		if err := s.EnqueueTask(extractTask); err != nil {
			slog.Warn("Failed to enqueue ExtractSummaryTask", "error", err)
		}
	}
}

// markDue reports whether the source should be fetched now and, if so,
// advances its refresh deadline.
func (s *Scheduler) markDue(sourceConfig *sources.Config, now time.Time) bool {
	s.nextRunMu.Lock()
	defer s.nextRunMu.Unlock()

	deadline, ok := s.nextRun[sourceConfig.Name]
	if ok && deadline.After(now) {
		return false
	}

	s.nextRun[sourceConfig.Name] = now.Add(time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second)
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
