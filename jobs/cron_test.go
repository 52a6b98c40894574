package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"market/config"
	"market/constants"
	"market/services/logger"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu   sync.Mutex
	runs []string
}

func (r *recordingRunner) Run(_ context.Context, name string) (interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, name)
	return nil, nil
}

func (r *recordingRunner) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.runs...)
}

func TestInitCronJobs(t *testing.T) {
	c := cron.New(cron.WithSeconds())
	defer c.Stop()
	runner := &recordingRunner{}

	err := InitCronJobs(context.Background(), c, runner, config.JobsConfig{
		ThresholdSpec:  "* * * * * *",
		DeactivateSpec: "* * * * * *",
	}, logger.Nop{})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	assert.Eventually(t, func() bool {
		runs := runner.seen()
		return contains(runs, constants.JobCancelExpiredDiscounts) && contains(runs, constants.JobDeactivateFinishedDiscount)
	}, 3*time.Second, 50*time.Millisecond)
}

func TestInitCronJobsRejectsBadSpec(t *testing.T) {
	c := cron.New()
	err := InitCronJobs(context.Background(), c, &recordingRunner{}, config.JobsConfig{
		ThresholdSpec:  "not a spec",
		DeactivateSpec: "0 0 * * *",
	}, logger.Nop{})
	assert.Error(t, err)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
