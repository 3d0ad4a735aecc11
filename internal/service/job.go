package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

const (
	defaultJobWorkers   = 4
	defaultJobRetention = 15 * time.Minute
)

// jobRegistry holds summarize jobs in memory and bounds how many run at once.
type jobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*domain.SummarizeJob
	sem  chan struct{}
	wg   sync.WaitGroup
}

func newJobRegistry(workers int) *jobRegistry {
	return &jobRegistry{
		jobs: make(map[string]*domain.SummarizeJob),
		sem:  make(chan struct{}, workers),
	}
}

func (r *jobRegistry) put(job *domain.SummarizeJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobID] = job
}

func (r *jobRegistry) get(jobID string) (domain.SummarizeJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.SummarizeJob{}, false
	}
	return *job, true
}

func (r *jobRegistry) finish(jobID string, summaryID int64, err error, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return
	}
	job.CompletedAt = &at
	if err != nil {
		job.Status = domain.JobStatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = domain.JobStatusSucceeded
	job.SummaryID = summaryID
}

// evict drops finished jobs completed before cutoff and returns how many.
func (r *jobRegistry) evict(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, job := range r.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(r.jobs, id)
			n++
		}
	}
	return n
}

// StartSummarizeJob checks the thread exists and summarizes it in the
// background. The job outlives the request context.
func (s *Service) StartSummarizeJob(ctx context.Context, threadID string) (*domain.SummarizeJob, error) {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return nil, err
	}

	job := &domain.SummarizeJob{
		JobID:     "job_" + uuid.New().String()[:8],
		ThreadID:  threadID,
		Status:    domain.JobStatusRunning,
		CreatedAt: s.now(),
	}
	s.jobs.put(job)
	snapshot := *job

	jobCtx := context.WithoutCancel(ctx)
	s.jobs.wg.Add(1)
	go func() {
		defer s.jobs.wg.Done()
		s.jobs.sem <- struct{}{}
		defer func() { <-s.jobs.sem }()

		summary, err := s.SummarizeThread(jobCtx, threadID)
		var summaryID int64
		if err == nil {
			summaryID = summary.ID
		} else {
			s.logger.Warn("summarize job failed", zap.String("job_id", snapshot.JobID), zap.Error(err))
		}
		s.jobs.finish(snapshot.JobID, summaryID, err, s.now())
	}()

	return &snapshot, nil
}

func (s *Service) GetJob(jobID string) (*domain.SummarizeJob, error) {
	job, ok := s.jobs.get(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

// WaitForJobs blocks until running jobs finish or ctx is done.
func (s *Service) WaitForJobs(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.jobs.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunJobRetentionMonitor periodically drops finished jobs older than the
// retention window.
func (s *Service) RunJobRetentionMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepFinishedJobs(defaultJobRetention)
		}
	}
}

func (s *Service) sweepFinishedJobs(retention time.Duration) {
	if n := s.jobs.evict(s.now().Add(-retention)); n > 0 {
		s.logger.Debug("evicted finished jobs", zap.Int("count", n))
	}
}
