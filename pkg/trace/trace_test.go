package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssargent/bdat/internal/testbuf"
	"github.com/ssargent/bdat/pkg/codec"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	buf := codec.NewBuffer(testbuf.New().U16(7).Bytes()).WithTracer(NewLogger(zap.New(core)))

	_, _, err := buf.Scalar(0, codec.U16)
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "read", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, int64(0), fields["offset"])
	assert.Equal(t, int64(2), fields["size"])
	assert.Equal(t, "u16", fields["type"])
	assert.Equal(t, "7", fields["value"])
}

func TestLogger_InfoLevelSkipsReads(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	buf := codec.NewBuffer([]byte{1}).WithTracer(NewLogger(zap.New(core)))

	_, _, err := buf.Scalar(0, codec.U8)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	buf := codec.NewBuffer(testbuf.New().U32(1, 2).U8(0).Bytes()).WithTracer(rec)

	_, _, err := buf.Scalars(0, codec.U32, codec.Fixed(2))
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[1].Offset)
	assert.Equal(t, 8, rec.Bytes())

	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	buf := codec.NewBuffer([]byte{1, 2}).WithTracer(Multi{a, b, Nop{}})

	_, _, err := buf.Scalars(0, codec.U8, codec.Fixed(2))
	require.NoError(t, err)
	assert.Len(t, a.Events(), 2)
	assert.Equal(t, a.Events(), b.Events())
}

func TestCombine(t *testing.T) {
	rec := &Recorder{}
	assert.Nil(t, Combine())
	assert.Nil(t, Combine(nil, nil))
	assert.Same(t, rec, Combine(nil, rec))
	assert.IsType(t, Multi{}, Combine(rec, Nop{}))
}
