package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/bloom"
)

var _ docchat.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue ordered by depth, then priority,
// with Bloom filter deduplication. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
}

// NewFrontier creates a Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier and returns false if the URL was
// already seen. URLs differing only by fragment are duplicates.
func (f *Frontier) Push(link docchat.DiscoveredLink) bool {
	link.URL = stripFragment(link.URL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(link.URL) {
		return false
	}
	heap.Push(f.queue, link)
	return true
}

// Pop returns the shallowest link, highest priority first.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docchat.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docchat.DiscoveredLink{}, false
	}
	link, _ := heap.Pop(f.queue).(docchat.DiscoveredLink)
	return link, true
}

// Peek returns the next link without removing it.
func (f *Frontier) Peek() (docchat.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docchat.DiscoveredLink{}, false
	}
	return (*f.queue)[0], true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

// Discovered returns the approximate number of distinct URLs ever pushed.
func (f *Frontier) Discovered() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.EstimatedCount()
}

func stripFragment(u string) string {
	if idx := strings.IndexByte(u, '#'); idx != -1 {
		return u[:idx]
	}
	return u
}

type linkHeap []docchat.DiscoveredLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].Priority > h[j].Priority
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(docchat.DiscoveredLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
