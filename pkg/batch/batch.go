// Package batch decodes independent top-level records in parallel.
//
// Jobs may share a Buffer; decoding only reads from it. Results keep the
// order of the jobs, and the first failing job cancels the rest.
package batch

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

// Job is one top-level decode.
type Job struct {
	Factory record.Factory
	Buffer  *codec.Buffer
	At      record.OffsetSpec
	Spec    record.ReadSpec
}

// Result is the outcome of one Job.
type Result struct {
	Value codec.Value
	End   int
}

type options struct {
	workers int
	logger  *zap.Logger
}

// Option configures Run.
type Option func(*options)

// WithWorkers caps the number of concurrent decodes. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger logs job progress at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run decodes every job and returns the results in job order.
func Run(ctx context.Context, jobs []Job, opts ...Option) ([]Result, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i := range jobs {
		job := jobs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, end, err := record.Decode(job.Factory, job.Buffer, job.At, job.Spec)
			if err != nil {
				o.logger.Debug("decode job failed", zap.Int("job", i), zap.Error(err))
				return errors.Wrapf(err, "job %d", i)
			}
			o.logger.Debug("decode job done", zap.Int("job", i), zap.Int("end", end))
			results[i] = Result{Value: v, End: end}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
