package lib

import (
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCronJob(t *testing.T) {
	sched, err := gocron.NewScheduler()
	require.NoError(t, err)
	NewScheduler(sched)
	defer func() {
		_ = sched.Shutdown()
		scheduler = nil
	}()

	id, err := CreateCronJob("orphan-order-sweep", time.Hour, func() {})
	require.NoError(t, err)
	require.NotNil(t, id)

	jobs := sched.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "orphan-order-sweep", jobs[0].Name())
	assert.Equal(t, *id, jobs[0].ID().String())
}
