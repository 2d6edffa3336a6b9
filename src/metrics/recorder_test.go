package metrics_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"procsched/src/metrics"
	"procsched/src/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.NewRecorder()
	a := model.NewJob("a", "./a")
	a.PID = 10
	b := model.NewJob("b", "./b")
	b.PID = 11

	r.Dispatch(a, 0)
	r.Preempt(a, 0, 1)
	r.Dispatch(b, 0)
	r.Complete(b, 0)
	r.Dispatch(a, 1)
	r.Preempt(a, 1, 1)
	r.Dispatch(a, 1)
	r.Complete(a, 1)

	rep := r.Report()
	assert.Equal(t, 4, rep.Cycles)
	assert.Equal(t, 2, rep.Preemptions)
	assert.Equal(t, 1, rep.Demotions)
	assert.Equal(t, []string{"b", "a"}, rep.Completed)

	require.Len(t, rep.Jobs, 2)
	assert.Equal(t, "a", rep.Jobs[0].Name)
	assert.Equal(t, 3, rep.Jobs[0].Dispatches)
	assert.Equal(t, 2, rep.Jobs[0].Preemptions)
	assert.Equal(t, 1, rep.Jobs[0].Demotions)
	assert.Equal(t, 1, rep.Jobs[1].Dispatches)

	kinds := []metrics.EventKind{}
	for _, ev := range rep.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []metrics.EventKind{
		metrics.DispatchEvent, metrics.PreemptEvent, metrics.DemoteEvent,
		metrics.DispatchEvent, metrics.CompleteEvent,
		metrics.DispatchEvent, metrics.PreemptEvent,
		metrics.DispatchEvent, metrics.CompleteEvent,
	}, kinds)
	assert.Equal(t, []string{"a", "b", "a", "a"}, rep.DispatchOrder())
}

func TestRecorder_Trace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trace.csv")
	r := metrics.NewRecorder()
	require.NoError(t, r.OpenTrace(path))

	j := model.NewJob("p2", "./p2")
	j.PID = 7
	r.Dispatch(j, 0)
	r.Complete(j, 0)
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ts", "event", "job", "pid", "tier"}, rows[0])
	assert.Equal(t, []string{"dispatch", "p2", "7", "0"}, rows[1][1:])
	assert.Equal(t, []string{"complete", "p2", "7", "0"}, rows[2][1:])
}

// Without a trace path nothing is written and Close is a no-op.
func TestRecorder_NoTrace(t *testing.T) {
	r := metrics.NewRecorder()
	require.NoError(t, r.OpenTrace(""))

	r.Dispatch(model.NewJob("a", "./a"), 0)
	assert.NoError(t, r.Close())
}

func TestReport_Write(t *testing.T) {
	r := metrics.NewRecorder()
	j := model.NewJob("a", "./a")
	j.PID = 3
	r.Dispatch(j, 0)
	r.Complete(j, 0)

	var buf bytes.Buffer
	require.NoError(t, r.Report().Write(&buf))

	assert.Contains(t, buf.String(), "Summary: 1 dispatch cycles, 0 preemptions, 0 demotions")
	assert.Contains(t, buf.String(), "pid=3")
	assert.Contains(t, buf.String(), "dispatch order: a\n")
}
