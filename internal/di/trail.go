package di

import "sync/atomic"

// frame is one binding being produced. Frames link to the frame that
// required them, so the chain from any frame to the top of its request is
// the path of keys currently being resolved.
type frame struct {
	container *Container
	key       *keyInfo
	parent    *frame
	fill      *fill
	done      atomic.Bool
}

// active reports whether (c, key) is being produced further up the chain.
// Frames whose production already finished are skipped, which lets thunks
// created during a production run after it completed.
func (f *frame) active(c *Container, key *keyInfo) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.container == c && cur.key == key && !cur.done.Load() {
			return true
		}
	}
	return false
}

// holding returns the fill of the innermost unfinished scoped production
// on the chain, or nil.
func (f *frame) holding() *fill {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.fill != nil && !cur.done.Load() {
			return cur.fill
		}
	}
	return nil
}

// path returns the display names along the chain, outermost first, followed
// by next when it is not nil.
func (f *frame) path(next *keyInfo) []string {
	var names []string
	for cur := f; cur != nil; cur = cur.parent {
		names = append(names, cur.key.String())
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	if next != nil {
		names = append(names, next.String())
	}
	return names
}
