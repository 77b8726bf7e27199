package runner

import (
	"sync"
	"time"

	"github.com/vk/scalgrid/internal/expid"
)

// Snapshot is a point-in-time view of a batch.
type Snapshot struct {
	Total      int       `json:"total"`
	Done       int       `json:"done"`
	Failed     int       `json:"failed"`
	Current    string    `json:"current,omitempty"`
	CurrentRun int       `json:"current_run,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	Finished   bool      `json:"finished"`
}

// Progress tracks a batch for concurrent readers such as the status server.
type Progress struct {
	mu   sync.RWMutex
	snap Snapshot
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Progress) begin(total int, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = Snapshot{Total: total, StartedAt: at}
}

func (p *Progress) start(id expid.Identity, run int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Current = id.String()
	p.snap.CurrentRun = run
}

func (p *Progress) finish(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Done++
	if failed {
		p.snap.Failed++
	}
	p.snap.Current = ""
	p.snap.CurrentRun = 0
}

func (p *Progress) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Finished = true
}
