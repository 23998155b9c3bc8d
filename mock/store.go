package mock

import (
	"context"

	"github.com/fwojciec/lawdoc"
)

var (
	_ lawdoc.VectorStore    = (*VectorStore)(nil)
	_ lawdoc.JobService     = (*JobService)(nil)
	_ lawdoc.SitemapService = (*SitemapService)(nil)
	_ lawdoc.Processor      = (*Processor)(nil)
	_ lawdoc.DocumentWriter = (*DocumentWriter)(nil)
)

// VectorStore is a mock implementation of lawdoc.VectorStore.
type VectorStore struct {
	InsertChunksFn func(ctx context.Context, chunks []*lawdoc.Chunk) error
	PruneChunksFn  func(ctx context.Context, url string, total int) error
	SearchFn       func(ctx context.Context, vector []float32, opts lawdoc.SearchOptions) ([]lawdoc.SearchResult, error)
}

func (s *VectorStore) InsertChunks(ctx context.Context, chunks []*lawdoc.Chunk) error {
	return s.InsertChunksFn(ctx, chunks)
}

func (s *VectorStore) PruneChunks(ctx context.Context, url string, total int) error {
	return s.PruneChunksFn(ctx, url, total)
}

func (s *VectorStore) Search(ctx context.Context, vector []float32, opts lawdoc.SearchOptions) ([]lawdoc.SearchResult, error) {
	return s.SearchFn(ctx, vector, opts)
}

// JobService is a mock implementation of lawdoc.JobService.
type JobService struct {
	CreateJobFn   func(ctx context.Context, job *lawdoc.Job) error
	FindJobByIDFn func(ctx context.Context, id string) (*lawdoc.Job, error)
	UpdateJobFn   func(ctx context.Context, job *lawdoc.Job) error
}

func (s *JobService) CreateJob(ctx context.Context, job *lawdoc.Job) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*lawdoc.Job, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) UpdateJob(ctx context.Context, job *lawdoc.Job) error {
	return s.UpdateJobFn(ctx, job)
}

// SitemapService is a mock implementation of lawdoc.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *lawdoc.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *lawdoc.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

// Processor is a mock implementation of lawdoc.Processor.
type Processor struct {
	ProcessFn func(ctx context.Context, task lawdoc.CrawlTask, resp *lawdoc.Response) *lawdoc.Outcome
}

func (p *Processor) Process(ctx context.Context, task lawdoc.CrawlTask, resp *lawdoc.Response) *lawdoc.Outcome {
	return p.ProcessFn(ctx, task, resp)
}

// DocumentWriter is a mock implementation of lawdoc.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *lawdoc.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *lawdoc.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}
