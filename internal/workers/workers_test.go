package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	name string
	err  error
	log  *[]string
}

func (f *fakeWorker) Run(context.Context) error {
	*f.log = append(*f.log, f.name)
	return f.err
}

func TestWorkers_RunsInOrder(t *testing.T) {
	var log []string
	w := NewWorkers(
		&fakeWorker{name: "first", log: &log},
		&fakeWorker{name: "second", log: &log},
	)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{"first", "second"}, log)
}

func TestWorkers_StartFailureAbortsRemainder(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	w := NewWorkers(
		&fakeWorker{name: "first", log: &log},
		&fakeWorker{name: "failing", err: boom, log: &log},
		&fakeWorker{name: "never", log: &log},
	)

	err := w.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "failing"}, log)
}

func TestWorkers_EmptyAggregate(t *testing.T) {
	require.NoError(t, NewWorkers().Run(context.Background()))
}
