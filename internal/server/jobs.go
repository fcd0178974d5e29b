package server

import (
	"sort"
	"sync"
	"time"

	"github.com/ChakriOriginals/MathVizAI/internal/pipeline"
)

// JobStatus tracks the lifecycle of a generation job.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobSuccess JobStatus = "success"
	JobFailed  JobStatus = "failed"
)

// JobSource records how a job's input text arrived.
type JobSource string

const (
	SourceTopic    JobSource = "topic"
	SourceDocument JobSource = "document"
)

// Job is one generation request and its result.
type Job struct {
	ID         string             `json:"id"`
	Status     JobStatus          `json:"status"`
	Source     JobSource          `json:"source"`
	Topic      string             `json:"topic"`
	Difficulty string             `json:"difficulty_level"`
	VideoPath  string             `json:"video_path,omitempty"`
	Error      string             `json:"error,omitempty"`
	Response   *pipeline.Response `json:"response,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// JobManager keeps recent jobs in memory with thread-safe access. Finished
// jobs are evicted oldest-first once the kept count exceeds the limit.
type JobManager struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	bus     *pipeline.EventBus
	maxKept int
}

// NewJobManager creates a manager that publishes events to the given bus.
func NewJobManager(bus *pipeline.EventBus) *JobManager {
	return &JobManager{
		jobs:    make(map[string]*Job),
		bus:     bus,
		maxKept: 100,
	}
}

// Create registers a new running job.
func (jm *JobManager) Create(job *Job) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job.Status = JobRunning
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	jm.jobs[job.ID] = job
	jm.evictOldest()
}

// Complete records the pipeline response against the job.
func (jm *JobManager) Complete(id string, resp pipeline.Response) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, ok := jm.jobs[id]
	if !ok {
		return
	}
	if resp.Status == "success" {
		job.Status = JobSuccess
		job.VideoPath = resp.ArtifactPath
	} else {
		job.Status = JobFailed
		job.Error = resp.Error
	}
	job.Response = &resp
	job.UpdatedAt = time.Now()
}

// Get returns a copy of the job, or nil if not found.
func (jm *JobManager) Get(id string) *Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	job, ok := jm.jobs[id]
	if !ok {
		return nil
	}
	cp := *job
	return &cp
}

// List returns all jobs, newest first.
func (jm *JobManager) List() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	result := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		cp := *job
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// evictOldest removes the oldest finished jobs when over the limit.
// Must be called with mu held.
func (jm *JobManager) evictOldest() {
	for len(jm.jobs) > jm.maxKept {
		var oldestID string
		var oldestTime time.Time
		for id, job := range jm.jobs {
			if job.Status == JobRunning {
				continue
			}
			if oldestID == "" || job.CreatedAt.Before(oldestTime) {
				oldestID = id
				oldestTime = job.CreatedAt
			}
		}
		if oldestID == "" {
			return
		}
		delete(jm.jobs, oldestID)
	}
}
