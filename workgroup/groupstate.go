package workgroup

// ctxReport is sent by a parked or finished work-item goroutine back to the
// driver (whichever call stack currently holds work-item 0).
type ctxReport struct {
	parked bool // true: parked at a barrier; false: kernel returned
	err    error
}

type workItemCtx struct {
	localID  Vec
	resume   chan struct{}
	report   chan ctxReport
	finished bool // kernel returned; no goroutine left listening on resume
}

// groupState is the execution state of a single work-group: the Work-Group
// Executor's working set for one Run call.
type groupState struct {
	desc   *LaunchDescriptor
	index  Vec // this work-group's index vector
	pool   *ContextPool

	hadBarrier bool
	contexts   []*workItemCtx // len == desc.NumWorkItems once hadBarrier; contexts[i]==nil means slot i never started
	current    uint64
	doneCount  uint64
	err        error
}

func newGroupState(desc *LaunchDescriptor, index Vec, pool *ContextPool) *groupState {
	return &groupState{desc: desc, index: index, pool: pool}
}

// maxLocalID returns, for each used dimension, local_work_size[d]: the
// exclusive carry bound incVec expects (the highest local id is one less).
func (g *groupState) maxLocalID() Vec {
	var bound Vec
	for i := 0; i < g.desc.WorkDim; i++ {
		bound[i] = g.desc.LocalWorkSize[i]
	}
	return bound
}

// run executes every work-item in the work-group to completion.
//
// The fast path calls the kernel directly, work-item by work-item, on the
// calling goroutine's own stack; this is the common case and allocates
// nothing beyond the WorkItem values themselves. The first call to Barrier
// from work-item 0 promotes that same call stack to be work-item 0's
// permanent "home" for the rest of the work-group's life and switches the
// remaining work-items to the cooperative, goroutine-backed path.
func (g *groupState) run() error {
	localID := Vec{}
	bound := g.maxLocalID()
	var i uint64
	for i = 0; i < g.desc.NumWorkItems; i++ {
		if g.hadBarrier {
			break
		}
		wi := &WorkItem{group: g, localID: localID, linear: i}
		if err := g.runDirect(wi); err != nil {
			return err
		}
		localID = incVec(g.desc.WorkDim, localID, bound)
	}
	if !g.hadBarrier {
		return g.err
	}
	// Work-item 0 has completed its whole lifecycle, including any barrier calls,
	// which each drive one round of the others. Any work-item parked at its
	// final barrier still needs one more round to run its tail code.
	for g.doneCount < g.desc.NumWorkItems-1 {
		g.driveRound()
		if g.err != nil {
			return g.err
		}
	}
	return g.err
}

// runDirect invokes the kernel for wi synchronously, recovering a panic
// into an error the way runWorkItem does for the cooperative path.
func (g *groupState) runDirect(wi *WorkItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapKernelPanic(r)
		}
	}()
	g.desc.Kernel(wi)
	return nil
}

// barrier implements WorkItem.Barrier. wi.linear==0 is always the work-item
// running on whatever call stack is currently "driving" the group (either
// the original run() caller, or deep inside that same call after one or
// more prior barrier calls); every other work-item runs inside a goroutine
// spawned by driveRound and must park rather than drive.
func (g *groupState) barrier(wi *WorkItem) error {
	if !g.hadBarrier {
		if wi.linear != 0 {
			diagLog.Printf("kernel %q: barrier entered by work-item %d before work-item 0; divergent control flow", g.desc.Name, wi.linear)
			if g.err == nil {
				g.err = ErrDivergentBarrier
			}
			return ErrDivergentBarrier
		}
		if err := g.pool.Ensure(int(g.desc.NumWorkItems), g.desc.StackSize); err != nil {
			g.err = err
			return err
		}
		g.hadBarrier = true
		g.contexts = make([]*workItemCtx, g.desc.NumWorkItems)
		g.contexts[0] = &workItemCtx{localID: wi.localID}
		g.current = 0
	}
	if wi.linear == 0 {
		return g.driveRound()
	}
	ctx := g.contexts[wi.linear]
	ctx.report <- ctxReport{parked: true}
	<-ctx.resume
	return nil
}

// driveRound advances the round-robin pointer from work-item 0 through
// every other work-item once, spawning a goroutine for any slot visited for
// the first time, skipping any slot that has already finished (its
// goroutine reported parked:false and returned, so nothing is listening on
// its resume channel anymore), and returns control to the caller
// (work-item 0's kernel code) once the pointer wraps back to 0.
func (g *groupState) driveRound() error {
	bound := g.maxLocalID()
	for {
		g.current = (g.current + 1) % g.desc.NumWorkItems
		if g.current == 0 {
			return g.err
		}
		ctx := g.contexts[g.current]
		if ctx == nil {
			prev := g.contexts[g.current-1]
			ctx = &workItemCtx{
				localID: incVec(g.desc.WorkDim, prev.localID, bound),
				resume:  make(chan struct{}),
				report:  make(chan ctxReport),
			}
			g.contexts[g.current] = ctx
			go g.runWorkItem(g.current, ctx)
		}
		if ctx.finished {
			// Its goroutine already reported parked:false and returned; no
			// one is listening on resume anymore.
			continue
		}
		ctx.resume <- struct{}{}
		rep := <-ctx.report
		if rep.err != nil && g.err == nil {
			g.err = rep.err
		}
		if !rep.parked {
			ctx.finished = true
			g.doneCount++
		}
	}
}

// runWorkItem is the goroutine body for every work-item other than 0 once
// the group has entered cooperative mode.
func (g *groupState) runWorkItem(idx uint64, ctx *workItemCtx) {
	<-ctx.resume
	wi := &WorkItem{group: g, localID: ctx.localID, linear: idx}
	err := g.runDirect(wi)
	ctx.report <- ctxReport{parked: false, err: err}
}
