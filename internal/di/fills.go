package di

import "sync"

// fill is one cache entry being produced. waitingOn is the entry its
// producer is currently blocked on, either because it is producing that
// entry itself or because another request is.
type fill struct {
	refs      int
	waitingOn *fill
}

// fillRegistry tracks in-flight fills across one container tree so that
// requests blocking on each other's entries report a cycle instead of
// waiting forever.
type fillRegistry struct {
	mu    sync.Mutex
	fills map[string]*fill
}

func newFillRegistry() *fillRegistry {
	return &fillRegistry{fills: make(map[string]*fill)}
}

// acquire returns the fill for id and records that holder, the fill the
// caller is producing (nil at the top of a request), now waits on it. It
// reports false when waiting would close a loop of fills.
func (r *fillRegistry) acquire(id string, holder *fill) (*fill, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fills[id]
	if !ok {
		f = &fill{}
		r.fills[id] = f
	}
	if holder != nil {
		for cur, steps := f, len(r.fills); cur != nil && steps >= 0; cur, steps = cur.waitingOn, steps-1 {
			if cur == holder {
				if !ok {
					delete(r.fills, id)
				}
				return nil, false
			}
		}
		holder.waitingOn = f
	}
	f.refs++
	return f, true
}

// release undoes acquire once the caller stopped waiting on f.
func (r *fillRegistry) release(id string, f *fill, holder *fill) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if holder != nil && holder.waitingOn == f {
		holder.waitingOn = nil
	}
	f.refs--
	if f.refs == 0 {
		delete(r.fills, id)
	}
}
