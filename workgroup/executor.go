package workgroup

// Executor is the Work-Group Executor: it runs one work-group of a launch
// to completion against the Work-Item Context Pool owned by its worker.
// An Executor is not safe for concurrent use; each outer-tier worker owns
// exactly one, and runs its work-groups one at a time.
type Executor struct {
	pool *ContextPool
}

// NewExecutor returns an Executor backed by its own context pool. Workers
// should keep one Executor for their whole lifetime so the pool's arena is
// reused across work-groups of the same shape.
func NewExecutor() *Executor {
	return &Executor{pool: NewContextPool()}
}

// Run executes every work-item of the work-group at groupIndex within desc.
func (e *Executor) Run(desc *LaunchDescriptor, groupIndex Vec) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	g := newGroupState(desc, groupIndex, e.pool)
	return g.run()
}

// Pool exposes the executor's context pool, mainly so callers can inspect
// Allocations() in tests.
func (e *Executor) Pool() *ContextPool {
	return e.pool
}
