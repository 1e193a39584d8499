package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a Divider
type Options struct {
	// Output is the root directory job directories are created in
	Output string
	// Workers bounds concurrent batch writes; <= 0 means one
	Workers int
	// Scripts are copied into every batch directory when set
	Scripts *Scripts
}

// Divider splits an input card into batch cards on disk
type Divider struct {
	log     *zap.Logger
	writer  *Writer
	workers int
	scripts *Scripts
}

// Result describes a finished divide run
type Result struct {
	RunID string
	Job   string
	Plan  *Plan
	Dirs  []string
}

// NewDivider returns a Divider. A nil logger discards output.
func NewDivider(opts Options, log *zap.Logger) *Divider {
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Divider{
		log:     log,
		writer:  NewWriter(opts.Output),
		workers: workers,
		scripts: opts.Scripts,
	}
}

// Divide reads the card at cardPath and writes one card per batch of size
// geometry records under <output>/<job>/. Batches are independent: a
// failed batch does not stop the others, and all failures are returned
// joined together.
func (d *Divider) Divide(ctx context.Context, job, cardPath string, size int) (*Result, error) {
	if _, err := d.writer.JobDir(job); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := d.log.With(zap.String("run_id", runID), zap.String("job", job))

	card, err := ReadFile(cardPath)
	if err != nil {
		return nil, err
	}
	log.Debug("card parsed",
		zap.String("path", cardPath),
		zap.Int("records", len(card.Geometry)),
		zap.Int("control_keys", card.Control.Len()))

	plan, err := NewPlan(card, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cardPath, err)
	}
	log.Info("dividing card",
		zap.Int("records", plan.Total),
		zap.Int("batch_size", plan.Size),
		zap.Int("batches", len(plan.Batches)))

	res := &Result{RunID: runID, Job: job, Plan: plan, Dirs: make([]string, len(plan.Batches))}
	errs := make([]error, len(plan.Batches))

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, b := range plan.Batches {
		g.Go(func() error {
			dir, err := d.writeBatch(ctx, job, b)
			if err != nil {
				log.Error("batch failed", zap.String("batch", b.Name()), zap.Error(err))
				errs[i] = err
				return nil
			}
			log.Debug("batch written",
				zap.String("batch", b.Name()),
				zap.String("kinds", b.Kinds),
				zap.String("dir", dir))
			res.Dirs[i] = dir
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return res, err
	}
	log.Info("card divided", zap.Int("batches", len(plan.Batches)))
	return res, nil
}

func (d *Divider) writeBatch(ctx context.Context, job string, b *Batch) (string, error) {
	dir, err := d.writer.WriteBatch(ctx, job, b)
	if err != nil {
		return "", err
	}
	if d.scripts != nil {
		if err := d.scripts.WriteTo(d.writer, dir, job, b); err != nil {
			return "", err
		}
	}
	return dir, nil
}
