// Package pipeline provides the high-level orchestration for the candidate
// extraction and scoring process: raw blocks in, a deduplicated ranked
// candidate set out.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbt245/scrape-from-bhancockio/internal/crawl"
	"github.com/pbt245/scrape-from-bhancockio/internal/dedupe"
	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Extractor turns one raw text block into a validated candidate record.
type Extractor interface {
	Extract(ctx context.Context, block string) (*types.CandidateRecord, error)
}

// Classifier assigns role, confidence and seniority to a record.
type Classifier interface {
	Classify(ctx context.Context, rec *types.CandidateRecord) (*types.CandidateRecord, error)
}

// Matcher scores a record against a job description.
type Matcher interface {
	Match(ctx context.Context, rec *types.CandidateRecord, jobDescription string) (*types.CandidateRecord, error)
}

// Options holds configuration for a pipeline run.
type Options struct {
	// JobDescription enables the JD matching stage when non-empty.
	JobDescription string
	// Workers bounds the number of candidates processed concurrently.
	// Each candidate still runs its own LLM calls sequentially.
	Workers int
}

// Summary reports what happened to each attempted candidate. It is always
// produced, including on partial failure.
type Summary struct {
	RunID     string
	Attempted int
	Extracted int
	Dropped   int
	Exported  int
}

// Runner wires the pipeline stages together.
type Runner struct {
	extractor  Extractor
	classifier Classifier
	matcher    Matcher
	logger     *zap.Logger
}

// New creates a Runner. A nil logger disables logging.
func New(extractor Extractor, classifier Classifier, matcher Matcher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		extractor:  extractor,
		classifier: classifier,
		matcher:    matcher,
		logger:     logger,
	}
}

// indexed pairs a processed record with its block arrival index so that
// first-seen order is deterministic regardless of worker interleaving.
type indexed struct {
	pos int
	rec *types.CandidateRecord
}

// Run processes every block through extraction, classification and optional
// JD matching, then deduplicates and ranks the survivors. Per-candidate
// failures are logged and dropped; a fatal transport error cancels the
// remaining work and returns the error with whatever summary was gathered.
// Workers own their candidate's record exclusively until the append into
// the shared sequence, which is the only guarded section.
func (r *Runner) Run(ctx context.Context, blocks []crawl.Block, opts Options) ([]*types.CandidateRecord, Summary, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		Attempted: len(blocks),
	}
	logger := r.logger.With(zap.String("run_id", summary.RunID))
	logger.Info("starting pipeline run",
		zap.Int("blocks", len(blocks)),
		zap.Int("workers", workers),
		zap.Bool("jd_matching", opts.JobDescription != ""))

	var (
		mu        sync.Mutex
		processed []indexed
		dropped   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, block := range blocks {
		block := block
		g.Go(func() error {
			rec, err := r.processBlock(gctx, block, opts.JobDescription, logger)
			if err != nil {
				if llm.IsFatal(err) {
					logger.Error("fatal transport error, aborting run", zap.Error(err))
					return err
				}
				logger.Warn("candidate dropped",
					zap.Int("block", block.Position),
					zap.String("source", block.SourceURL),
					zap.Error(err))
				mu.Lock()
				dropped++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			processed = append(processed, indexed{pos: block.Position, rec: rec})
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	summary.Dropped = dropped
	summary.Extracted = len(processed)

	if err != nil {
		return nil, summary, err
	}

	// Restore arrival order before dedup so first-seen semantics do not
	// depend on worker interleaving.
	sort.Slice(processed, func(i, j int) bool { return processed[i].pos < processed[j].pos })

	records := make([]*types.CandidateRecord, 0, len(processed))
	for _, p := range processed {
		records = append(records, p.rec)
	}

	final := dedupe.Process(records)
	summary.Exported = len(final)

	logger.Info("pipeline run complete",
		zap.Int("attempted", summary.Attempted),
		zap.Int("extracted", summary.Extracted),
		zap.Int("dropped", summary.Dropped),
		zap.Int("exported", summary.Exported))

	return final, summary, nil
}

// processBlock runs the per-candidate stage sequence. The record is owned
// by the calling worker throughout.
func (r *Runner) processBlock(ctx context.Context, block crawl.Block, jobDescription string, logger *zap.Logger) (*types.CandidateRecord, error) {
	rec, err := r.extractor.Extract(ctx, block.Text)
	if err != nil {
		return nil, err
	}

	logger.Debug("candidate extracted",
		zap.Int("block", block.Position),
		zap.String("name", rec.PersonalInfo.FullName))

	if rec, err = r.classifier.Classify(ctx, rec); err != nil {
		return nil, err
	}

	if jobDescription != "" {
		if rec, err = r.matcher.Match(ctx, rec, jobDescription); err != nil {
			return nil, err
		}
	}

	return rec, nil
}
