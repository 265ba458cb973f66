package convo

import "fmt"

// RepliesOf returns the indices of messages replying to root, in the
// order they were appended. An index with no replies (or out of range)
// yields an empty slice, not an error: a root with zero replies is
// indistinguishable from a plain message.
func (l *Log) RepliesOf(root int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	rs := l.replies[root]
	out := make([]int, len(rs))
	copy(out, rs)
	return out
}

// RootOf resolves the thread root for the message at index: its own
// index when it carries no thread reference (every message is a
// potential root), otherwise the referenced root. Purely structural;
// the log is not modified. Returning a message's own index is all
// "creating a thread" amounts to — the returned index is the thread
// handle.
func (l *Log) RootOf(index int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.msgs) {
		return 0, fmt.Errorf("%w: index %d", ErrMessageNotFound, index)
	}
	if tid := l.msgs[index].ThreadID; tid != nil {
		return *tid, nil
	}
	return index, nil
}
