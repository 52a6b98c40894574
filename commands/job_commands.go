package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"market/constants"
	"market/services"
	"market/services/logger"
)

var (
	ErrUnknownJob = errors.New("unknown job")
	ErrJobRunning = errors.New("job is already running")
)

// JobCommand định nghĩa interface cho các job chạy định kỳ hoặc thủ công
type JobCommand interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
}

type ThresholdEvaluator interface {
	RunThresholdEvaluation(ctx context.Context) (services.EvaluationSummary, error)
}

type FinishedDeactivator interface {
	DeactivateFinishedDiscounts(ctx context.Context) (int64, error)
}

// CancelExpiredDiscountsCommand decides every discount whose interest window
// closed: activate with promo codes or cancel.
type CancelExpiredDiscountsCommand struct {
	evaluator ThresholdEvaluator
}

func NewCancelExpiredDiscountsCommand(e ThresholdEvaluator) *CancelExpiredDiscountsCommand {
	return &CancelExpiredDiscountsCommand{evaluator: e}
}

func (c *CancelExpiredDiscountsCommand) Name() string { return constants.JobCancelExpiredDiscounts }

func (c *CancelExpiredDiscountsCommand) Execute(ctx context.Context) (interface{}, error) {
	return c.evaluator.RunThresholdEvaluation(ctx)
}

// DeactivateFinishedDiscountsCommand turns off discounts past their end date.
type DeactivateFinishedDiscountsCommand struct {
	deactivator FinishedDeactivator
}

func NewDeactivateFinishedDiscountsCommand(d FinishedDeactivator) *DeactivateFinishedDiscountsCommand {
	return &DeactivateFinishedDiscountsCommand{deactivator: d}
}

func (c *DeactivateFinishedDiscountsCommand) Name() string {
	return constants.JobDeactivateFinishedDiscount
}

func (c *DeactivateFinishedDiscountsCommand) Execute(ctx context.Context) (interface{}, error) {
	n, err := c.deactivator.DeactivateFinishedDiscounts(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{"deactivated": n}, nil
}

// Registry runs jobs by name, one invocation of a job at a time. Cron and the
// admin trigger share it.
type Registry struct {
	logger logger.Logger
	mu     sync.Mutex
	jobs   map[string]JobCommand
	locks  map[string]*sync.Mutex
}

func NewRegistry(log logger.Logger, jobs ...JobCommand) *Registry {
	r := &Registry{logger: log, jobs: map[string]JobCommand{}, locks: map[string]*sync.Mutex{}}
	for _, j := range jobs {
		r.Register(j)
	}
	return r
}

func (r *Registry) Register(job JobCommand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.Name()] = job
	r.locks[job.Name()] = &sync.Mutex{}
}

// Names lists the registered jobs, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.jobs))
	for n := range r.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Run(ctx context.Context, name string) (interface{}, error) {
	r.mu.Lock()
	job, ok := r.jobs[name]
	lock := r.locks[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !lock.TryLock() {
		return nil, ErrJobRunning
	}
	defer lock.Unlock()

	start := time.Now()
	r.logger.Info("⏰ job %s started", name)
	result, err := job.Execute(ctx)
	if err != nil {
		r.logger.Error("❌ job %s failed after %s: %v", name, time.Since(start), err)
		return nil, err
	}
	r.logger.Info("✅ job %s done in %s: %+v", name, time.Since(start), result)
	return result, nil
}
