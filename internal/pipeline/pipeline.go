// Package pipeline orchestrates a reconciliation run: decode input, build
// the group database through the configured phases, synthesize consensus
// entities, and render the report.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jpickens/crosscheck/internal/cache"
	"github.com/jpickens/crosscheck/internal/consensus"
	"github.com/jpickens/crosscheck/internal/groupdb"
	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/similarity"
	"github.com/jpickens/crosscheck/internal/worker"
)

// Pipeline wires the comparison engine, the grouping database, and the
// consensus synthesizer together under one configuration.
type Pipeline struct {
	cfg         *model.Config
	engine      *similarity.Engine
	comparator  *similarity.EntityComparator
	synthesizer *consensus.Synthesizer
	renderer    *Renderer
}

// NewPipeline builds a pipeline from configuration. Pairwise scores are
// memoized for the lifetime of the run.
func NewPipeline(cfg *model.Config) *Pipeline {
	memo := cache.NewMemoryCache(time.Hour, 2*time.Hour)
	engine := similarity.NewEngine(cfg.Weights, memo)
	return &Pipeline{
		cfg:         cfg,
		engine:      engine,
		comparator:  similarity.NewEntityComparator(engine, cfg.Weights),
		synthesizer: consensus.NewSynthesizer(cfg, engine),
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
	}
}

// Engine exposes the comparison engine, mainly for tests that want to stub
// strategies.
func (p *Pipeline) Engine() *similarity.Engine {
	return p.engine
}

// RunResult is the complete outcome of one reconciliation run.
type RunResult struct {
	DB     *groupdb.Database
	Report *model.Report
}

// Run reconciles the given entities: sequential phase-ordered grouping, then
// concurrent per-group consensus synthesis, then report assembly.
func (p *Pipeline) Run(entities []*identifier.Entity, inputPath string) (*RunResult, error) {
	db := groupdb.NewDatabase(p.cfg, p.comparator, os.Stderr)
	if err := db.Build(entities); err != nil {
		return nil, fmt.Errorf("build groups: %w", err)
	}

	results := worker.SynthesizeGroups(db, p.synthesizer, p.cfg.Concurrency.SynthesisWorkers)
	for _, r := range results {
		if r.Error != nil {
			return nil, fmt.Errorf("synthesize group %d: %w", r.GroupIndex, r.Error)
		}
	}

	return &RunResult{
		DB:     db,
		Report: p.buildReport(db, inputPath, len(entities)),
	}, nil
}

func (p *Pipeline) buildReport(db *groupdb.Database, inputPath string, entityCount int) *model.Report {
	report := &model.Report{
		RunID:       uuid.NewString(),
		InputPath:   inputPath,
		GeneratedAt: time.Now().UTC(),
		Entities:    entityCount,
		PhaseStats:  db.Stats(),
	}

	for _, g := range db.Groups() {
		report.Groups++
		if len(g.MemberKeys) > 1 {
			report.Merged++
		}
		summary := model.GroupSummary{
			Index:        g.Index,
			Phase:        g.Phase,
			FounderKey:   g.FounderKey,
			MemberKeys:   g.MemberKeys,
			NearMissKeys: g.NearMissKeys,
			Prospect:     g.Prospect,
			HasConsensus: g.Consensus != nil,
		}
		if g.Consensus != nil {
			summary.ConsensusName = g.Consensus.FullName()
		}
		report.Summary = append(report.Summary, summary)
	}
	return report
}
