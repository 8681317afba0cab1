package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a summarization job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusChunking    JobStatus = "chunking"
	StatusSummarizing JobStatus = "summarizing"
	StatusRendering   JobStatus = "rendering"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusCanceled    JobStatus = "canceled"
)

// Job tracks the state of a single document summarization.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Per-job overrides of the recursion policy; zero means use the
	// server default.
	ChunkWindow   int `json:"-"`
	MinFanoutSize int `json:"-"`
	MaxDepth      int `json:"-"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	rawText  string
	result   string
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	EstimatedTokens int      `json:"estimated_tokens"`
	ServiceCalls    int      `json:"service_calls"`
	SectionsWritten int      `json:"sections_written"`
	Errors          []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrServiceCalls atomically counts one language service call.
func (j *Job) IncrServiceCalls() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ServiceCalls++
	j.UpdatedAt = time.Now()
}

// SetChunkStats records total chunk count and the token estimate for
// the chunked document.
func (j *Job) SetChunkStats(chunks, tokens int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = chunks
	j.Progress.EstimatedTokens = tokens
	j.UpdatedAt = time.Now()
}

// SetSectionsWritten records the final section count.
func (j *Job) SetSectionsWritten(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsWritten = n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetRawText sets inline text input, used instead of a file upload.
func (j *Job) SetRawText(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rawText = text
}

// RawText returns the inline text input.
func (j *Job) RawText() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rawText
}

// SetResult stores the rendered markdown document.
func (j *Job) SetResult(markdown string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = markdown
	j.UpdatedAt = time.Now()
}

// Result returns the rendered markdown document, empty until the job
// completes.
func (j *Job) Result() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			TotalChunks:     j.Progress.TotalChunks,
			EstimatedTokens: j.Progress.EstimatedTokens,
			ServiceCalls:    j.Progress.ServiceCalls,
			SectionsWritten: j.Progress.SectionsWritten,
			Errors:          errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
