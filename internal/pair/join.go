package pair

import "sync/atomic"

// join runs done exactly once after arrive has been called n times.
type join struct {
	remaining atomic.Int32
	done      func()
}

func newJoin(n int32, done func()) *join {
	j := &join{done: done}
	j.remaining.Store(n)
	return j
}

func (j *join) arrive() {
	if j.remaining.Add(-1) == 0 {
		j.done()
	}
}
