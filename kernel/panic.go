package kernel

import "runtime/debug"

// PanicInfo describes the first task that panicked.
type PanicInfo struct {
	TaskID TaskID
	Task   string
	Tick   uint64
	Value  any
	Stack  []byte
}

// OnPanic sets the function that reports a task panic. Only the first panic is reported.
// fn runs on the panicking task's goroutine after the task has stopped; it must not panic.
func (k *Kernel) OnPanic(fn func(PanicInfo)) {
	k.panicMu.Lock()
	k.onPanic = fn
	k.panicMu.Unlock()
}

// Panicked reports whether any task has panicked.
func (k *Kernel) Panicked() bool { return k.panicked.Load() }

func (k *Kernel) taskPanicked(ctx *Context, v any) {
	if !k.panicked.CompareAndSwap(false, true) {
		return
	}
	info := PanicInfo{
		TaskID: ctx.id,
		Task:   ctx.name,
		Tick:   k.nowTick(),
		Value:  v,
		Stack:  debug.Stack(),
	}

	k.panicMu.Lock()
	fn := k.onPanic
	k.panicMu.Unlock()
	if fn != nil {
		fn(info)
	}
}
