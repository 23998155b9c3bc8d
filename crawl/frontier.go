package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/bloom"
)

// Compile-time interface verification.
var _ lawdoc.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory task queue ordered by priority with Bloom filter
// deduplication. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *taskHeap
	seq   uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &taskHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a task to the frontier.
// Returns false if the URL has already been seen. URLs with the same
// bloom.Key are duplicates.
func (f *Frontier) Push(task lawdoc.CrawlTask) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Visit(task.URL) {
		return false
	}

	task.URL = bloom.Key(task.URL)
	f.push(task)
	return true
}

// Requeue puts a previously pushed task back in the queue.
func (f *Frontier) Requeue(task lawdoc.CrawlTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.push(task)
}

func (f *Frontier) push(task lawdoc.CrawlTask) {
	f.seq++
	heap.Push(f.queue, queuedTask{task: task, seq: f.seq})
}

// Pop returns the next task by priority, oldest first within a priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (lawdoc.CrawlTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return lawdoc.CrawlTask{}, false
	}
	item, _ := heap.Pop(f.queue).(queuedTask)
	return item.task, true
}

// Len returns the number of tasks in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Visited(rawURL)
}

type queuedTask struct {
	task lawdoc.CrawlTask
	seq  uint64
}

// taskHeap implements heap.Interface as a max-heap on priority.
type taskHeap []queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority > h[j].task.Priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	item, _ := x.(queuedTask)
	*h = append(*h, item)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
