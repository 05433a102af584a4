package jobs

import (
	"log"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
)

// CronJob is a named background task with a cron schedule.
type CronJob interface {
	Name() string
	Schedule() string
	Run()
}

// Scheduler runs the registered jobs on their cron schedules, skipping a
// tick when the previous run of the same job is still going.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []CronJob
	running mapset.Set[string]
	mu      sync.Mutex
}

// NewScheduler constructs a Scheduler over the given jobs.
func NewScheduler(jobs ...CronJob) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		jobs:    jobs,
		running: mapset.NewSet[string](),
	}
}

// Start registers every job with the cron and begins scheduling.
func (s *Scheduler) Start() error {
	for _, job := range s.jobs {
		if err := s.cron.AddFunc(job.Schedule(), func() {
			s.mu.Lock()
			if s.running.Contains(job.Name()) {
				s.mu.Unlock()
				log.Printf("Warning: job %s still running, skipping tick", job.Name())
				return
			}
			s.running.Add(job.Name())
			s.mu.Unlock()

			defer func() {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.running.Remove(job.Name())
			}()

			job.Run()
		}); err != nil {
			return err
		}
		log.Printf("Scheduled job %s (%s)", job.Name(), job.Schedule())
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
