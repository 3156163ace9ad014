package batch

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssargent/bdat/internal/testbuf"
	"github.com/ssargent/bdat/internal/testrec"
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

func TestRun_PreservesOrder(t *testing.T) {
	b := testbuf.New()
	var offsets []int
	for i := 0; i < 20; i++ {
		offsets = append(offsets, b.Len())
		b.CStr("p").U8(uint8(i))
	}
	buf := codec.NewBuffer(b.Bytes())

	jobs := make([]Job, len(offsets))
	for i, off := range offsets {
		jobs[i] = Job{Factory: testrec.NewPerson, Buffer: buf, At: record.Sequential(off)}
	}

	results, err := Run(context.Background(), jobs, WithWorkers(4))
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, res := range results {
		rec, ok := res.Value.(record.Record)
		require.True(t, ok)
		assert.Equal(t, offsets[i], rec.Start())
		assert.Equal(t, offsets[i]+3, res.End)
		age, _ := rec.Field("age")
		assert.Equal(t, uint64(i), age.(codec.Scalar).Uint())
	}
}

func TestRun_FailsFast(t *testing.T) {
	buf := codec.NewBuffer(testbuf.New().CStr("ok").U8(1).Str("unterminated").Bytes())

	jobs := []Job{
		{Factory: testrec.NewPerson, Buffer: buf, At: record.Sequential(0)},
		{Factory: testrec.NewPerson, Buffer: buf, At: record.Sequential(4)},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	results, err := Run(context.Background(), jobs, WithWorkers(1), WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, codec.ErrOutOfBounds))
	assert.Contains(t, err.Error(), "job 1")
	assert.Equal(t, 1, logs.FilterMessage("decode job failed").Len())
}

func TestRun_CanceledContext(t *testing.T) {
	buf := codec.NewBuffer(testbuf.New().CStr("a").U8(1).Bytes())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []Job{{Factory: testrec.NewPerson, Buffer: buf}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	results, err := Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
