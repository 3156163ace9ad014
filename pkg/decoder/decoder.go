// Package decoder runs layout-described decodes over whole documents. It is
// the entry point shared by the command line and the HTTP service.
package decoder

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ssargent/bdat/pkg/batch"
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/layout"
	"github.com/ssargent/bdat/pkg/metrics"
	"github.com/ssargent/bdat/pkg/query"
	"github.com/ssargent/bdat/pkg/record"
	"github.com/ssargent/bdat/pkg/trace"
)

// ErrBadRequest marks requests that can never succeed against the schema.
var ErrBadRequest = errors.New("bdat: bad decode request")

// Request selects what to decode.
type Request struct {
	// Type is the layout type of the top-level records.
	Type string
	// Offsets lists independent start offsets. Empty means offset 0.
	Offsets []int
	// Count is 0 for a bare record, otherwise the number of records read
	// sequentially from each offset.
	Count int
	// MaxBytes bounds each sequential read when positive.
	MaxBytes int
}

// Result is the decode of one requested offset.
type Result struct {
	Offset int
	End    int
	Value  codec.Value
}

// Decoder decodes documents against one layout schema.
type Decoder struct {
	schema  *layout.Schema
	order   binary.ByteOrder
	tracer  codec.Tracer
	metrics *metrics.Metrics
	logger  *zap.Logger
	workers int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTracer attaches a trace sink to every buffer decoded.
func WithTracer(t codec.Tracer) Option {
	return func(d *Decoder) { d.tracer = t }
}

// WithMetrics records decode metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Decoder) { d.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithWorkers caps parallel decodes of independent offsets.
func WithWorkers(n int) Option {
	return func(d *Decoder) { d.workers = n }
}

// WithByteOrder overrides the schema byte order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(d *Decoder) {
		if order != nil {
			d.order = order
		}
	}
}

// New returns a Decoder for schema.
func New(schema *layout.Schema, opts ...Option) (*Decoder, error) {
	order, err := schema.Order()
	if err != nil {
		return nil, err
	}
	d := &Decoder{
		schema: schema,
		order:  order,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Schema returns the layout schema.
func (d *Decoder) Schema() *layout.Schema { return d.schema }

func (d *Decoder) buffer(data []byte) *codec.Buffer {
	var sinks []codec.Tracer
	if d.tracer != nil {
		sinks = append(sinks, d.tracer)
	}
	if d.metrics != nil {
		sinks = append(sinks, d.metrics)
	}
	return codec.NewBuffer(data, codec.WithByteOrder(d.order), codec.WithTracer(trace.Combine(sinks...)))
}

// Decode decodes req over data. Results follow the order of req.Offsets.
func (d *Decoder) Decode(ctx context.Context, data []byte, req Request) ([]Result, error) {
	factory, err := d.schema.Factory(req.Type)
	if err != nil {
		return nil, errors.Mark(err, ErrBadRequest)
	}
	if req.Count < 0 || req.MaxBytes < 0 {
		return nil, errors.Wrapf(ErrBadRequest, "negative count or max bytes")
	}

	offsets := req.Offsets
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	spec := record.ReadSpec{MaxBytes: req.MaxBytes}
	if req.Count > 0 {
		spec.Count = codec.Fixed(req.Count)
	}

	buf := d.buffer(data)
	jobs := make([]batch.Job, len(offsets))
	for i, off := range offsets {
		jobs[i] = batch.Job{Factory: factory, Buffer: buf, At: record.Sequential(off), Spec: spec}
	}

	start := time.Now()
	done, err := batch.Run(ctx, jobs, batch.WithWorkers(d.workers), batch.WithLogger(d.logger))
	if err != nil {
		d.observe(req.Type, 0, err, start)
		d.logger.Debug("decode failed", zap.String("type", req.Type), zap.Error(err))
		return nil, err
	}

	results := make([]Result, len(done))
	total := 0
	for i, r := range done {
		results[i] = Result{Offset: offsets[i], End: r.End, Value: r.Value}
		total += len(Flatten(r.Value))
	}
	d.observe(req.Type, total, nil, start)
	d.logger.Debug("decode done",
		zap.String("type", req.Type),
		zap.Int("offsets", len(offsets)),
		zap.Int("records", total),
		zap.Duration("took", time.Since(start)))
	return results, nil
}

// Filter decodes req over data and tests the decoded records against
// filters. It returns 1 when every filter is satisfied by some record and
// 0 otherwise. At least one filter is required.
func (d *Decoder) Filter(ctx context.Context, data []byte, req Request, filters ...query.Filter) (int, error) {
	if len(filters) == 0 {
		return 0, errors.Wrap(ErrBadRequest, "no filter given")
	}
	for i := range filters {
		if err := filters[i].Validate(); err != nil {
			return 0, errors.Mark(err, ErrBadRequest)
		}
	}
	results, err := d.Decode(ctx, data, req)
	if err != nil {
		return 0, err
	}
	var els record.Records
	for _, r := range results {
		els = append(els, Flatten(r.Value)...)
	}
	if query.ApplyAll(els, filters) {
		return 1, nil
	}
	return 0, nil
}

func (d *Decoder) observe(typeName string, records int, err error, start time.Time) {
	if d.metrics != nil {
		d.metrics.RecordDecode(typeName, records, err, time.Since(start))
	}
}

// Flatten returns the records held by v: the elements of a Records value,
// or v itself when it is a single record. Nil entries are kept.
func Flatten(v codec.Value) record.Records {
	switch t := v.(type) {
	case record.Records:
		return t
	case record.Record:
		return record.Records{t}
	default:
		return nil
	}
}
