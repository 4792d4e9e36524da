package worker

import (
	"context"

	"github.com/jpickens/crosscheck/internal/consensus"
	"github.com/jpickens/crosscheck/internal/groupdb"
)

// SynthesisJob computes the consensus entity for one frozen group.
type SynthesisJob struct {
	DB          *groupdb.Database
	Group       *groupdb.EntityGroup
	Synthesizer *consensus.Synthesizer
}

// Execute implements Job.
func (j *SynthesisJob) Execute(_ context.Context) Result {
	return &SynthesisResult{
		GroupIndex: j.Group.Index,
		Error:      j.Synthesizer.SynthesizeGroup(j.DB, j.Group),
	}
}

// SynthesisResult reports one group's synthesis outcome.
type SynthesisResult struct {
	GroupIndex int
	Error      error
}

// GetError implements Result.
func (r *SynthesisResult) GetError() error {
	return r.Error
}

// SynthesizeGroups fans group synthesis out across the pool and returns the
// per-group results. Membership must be frozen before calling: concurrent
// synthesis relies on groups sharing nothing but read-only entities.
func SynthesizeGroups(db *groupdb.Database, syn *consensus.Synthesizer, concurrency int) []*SynthesisResult {
	pool := NewPool(concurrency)
	pool.Start()
	go func() {
		for _, g := range db.Groups() {
			pool.Submit(&SynthesisJob{DB: db, Group: g, Synthesizer: syn})
		}
		pool.Close()
	}()

	raw := pool.Collect()
	results := make([]*SynthesisResult, 0, len(raw))
	for _, r := range raw {
		if sr, ok := r.(*SynthesisResult); ok {
			results = append(results, sr)
		}
	}
	return results
}
