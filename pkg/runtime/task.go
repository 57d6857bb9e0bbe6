package runtime

import "sync"

// TaskStatus tracks the lifecycle of a spawned task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskDone
	TaskFailed
)

// TaskValue is the handle returned by spawn. Await blocks until the body
// settles; repeated awaits observe the memoized outcome.
type TaskValue struct {
	mu     sync.Mutex
	done   *sync.Cond
	status TaskStatus
	result Value
	err    *Error
}

func NewTask() *TaskValue {
	t := &TaskValue{}
	t.done = sync.NewCond(&t.mu)
	return t
}

func (t *TaskValue) Kind() Kind { return KindTask }

func (t *TaskValue) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Await blocks until the task settles and returns its value or failure.
func (t *TaskValue) Await() (Value, *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.status == TaskPending {
		t.done.Wait()
	}
	return t.result, t.err
}

// Resolve settles the task with a value. Settling twice is a no-op.
func (t *TaskValue) Resolve(val Value) {
	t.mu.Lock()
	if t.status == TaskPending {
		t.status = TaskDone
		t.result = val
		t.done.Broadcast()
	}
	t.mu.Unlock()
}

// Fail settles the task with an error. Settling twice is a no-op.
func (t *TaskValue) Fail(err *Error) {
	t.mu.Lock()
	if t.status == TaskPending {
		t.status = TaskFailed
		t.err = err
		t.done.Broadcast()
	}
	t.mu.Unlock()
}

// Describe implements SelfDescriber so traces report task state instead of
// reaching into an unsettled result.
func (t *TaskValue) Describe() string {
	switch t.Status() {
	case TaskDone:
		return "Task(done)"
	case TaskFailed:
		return "Task(failed)"
	default:
		return "Task(pending)"
	}
}
