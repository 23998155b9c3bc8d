package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/google/uuid"
)

// Ensure JobStore implements lawdoc.JobService at compile time.
var _ lawdoc.JobService = (*JobStore)(nil)

// JobStore implements lawdoc.JobService with one JSON file per job, so a
// job started by one process can be inspected by another.
type JobStore struct {
	dir string
	mu  sync.Mutex

	// Now returns the time recorded for new jobs.
	Now func() time.Time
}

// NewJobStore creates a JobStore that keeps job files in dir.
func NewJobStore(dir string) *JobStore {
	return &JobStore{dir: dir, Now: time.Now}
}

func (s *JobStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", lawdoc.Errorf(lawdoc.EINVALID, "invalid job ID %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// CreateJob assigns an ID and stores a new running job.
func (s *JobStore) CreateJob(ctx context.Context, job *lawdoc.Job) error {
	if len(job.URLs) == 0 {
		return lawdoc.Errorf(lawdoc.EINVALID, "job requires at least one URL")
	}

	job.ID = uuid.New().String()
	if job.Status == "" {
		job.Status = lawdoc.JobRunning
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = s.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(job)
}

// FindJobByID retrieves a job by ID.
func (s *JobStore) FindJobByID(ctx context.Context, id string) (*lawdoc.Job, error) {
	name, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, lawdoc.Errorf(lawdoc.ENOTFOUND, "job %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	var job lawdoc.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINTERNAL, "corrupt job file %s: %v", id, err)
	}
	return &job, nil
}

// UpdateJob overwrites an existing job.
func (s *JobStore) UpdateJob(ctx context.Context, job *lawdoc.Job) error {
	name, err := s.path(job.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return lawdoc.Errorf(lawdoc.ENOTFOUND, "job %s not found", job.ID)
	}
	return s.write(job)
}

func (s *JobStore) write(job *lawdoc.Job) error {
	name, err := s.path(job.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(name, data)
}
