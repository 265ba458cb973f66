package convo

import (
	"errors"
	"testing"

	"convolog/pkg/models"
)

func TestAppendAssignsDenseIndices(t *testing.T) {
	l := NewLog("c1")
	for i := 0; i < 5; i++ {
		idx, err := l.Append("alice", "hello", models.TypeText, nil)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
	}
	if l.Len() != 5 {
		t.Fatalf("expected length 5, got %d", l.Len())
	}
}

func TestAppendRejectsUnknownType(t *testing.T) {
	l := NewLog("c1")
	if _, err := l.Append("alice", "hi", models.MessageType("voice"), nil); !errors.Is(err, ErrInvalidMessageType) {
		t.Fatalf("expected ErrInvalidMessageType, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("rejected append must not grow the log")
	}
}

func TestAppendRejectsBadThreadReference(t *testing.T) {
	l := NewLog("c1")
	if _, err := l.Append("alice", "root", models.TypeText, nil); err != nil {
		t.Fatalf("append root: %v", err)
	}
	for _, tid := range []int{1, 2, -1} {
		tid := tid
		if _, err := l.Append("bob", "reply", models.TypeText, &tid); !errors.Is(err, ErrInvalidThreadReference) {
			t.Fatalf("threadID %d: expected ErrInvalidThreadReference, got %v", tid, err)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("expected length 1 after rejected appends, got %d", l.Len())
	}
}

func TestGetOutOfRange(t *testing.T) {
	l := NewLog("c1")
	if _, err := l.Get(0); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestRepliesInAppendOrder(t *testing.T) {
	l := NewLog("c1")
	root, _ := l.Append("alice", "root", models.TypeText, nil)
	if _, err := l.Append("bob", "unrelated", models.TypeText, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	r1, _ := l.Append("bob", "first reply", models.TypeText, &root)
	r2, _ := l.Append("carol", "second reply", models.TypeText, &root)

	got := l.RepliesOf(root)
	if len(got) != 2 || got[0] != r1 || got[1] != r2 {
		t.Fatalf("expected replies [%d %d], got %v", r1, r2, got)
	}
	if rs := l.RepliesOf(1); len(rs) != 0 {
		t.Fatalf("expected no replies for message 1, got %v", rs)
	}
	if rs := l.RepliesOf(99); len(rs) != 0 {
		t.Fatalf("unknown root must yield empty replies, got %v", rs)
	}
}

func TestRootOf(t *testing.T) {
	l := NewLog("c1")
	root, _ := l.Append("alice", "root", models.TypeText, nil)
	reply, _ := l.Append("bob", "reply", models.TypeText, &root)

	if r, err := l.RootOf(root); err != nil || r != root {
		t.Fatalf("root message must be its own root, got %d, %v", r, err)
	}
	if r, err := l.RootOf(reply); err != nil || r != root {
		t.Fatalf("expected root %d, got %d, %v", root, r, err)
	}
	if _, err := l.RootOf(42); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestAllIsRestartable(t *testing.T) {
	l := NewLog("c1")
	for i := 0; i < 3; i++ {
		if _, err := l.Append("alice", "hi", models.TypeText, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	seq := l.All()
	for pass := 0; pass < 2; pass++ {
		n := 0
		for m := range seq {
			if m.Index != n {
				t.Fatalf("pass %d: expected index %d, got %d", pass, n, m.Index)
			}
			n++
		}
		if n != 3 {
			t.Fatalf("pass %d: expected 3 messages, got %d", pass, n)
		}
	}
}

func TestFilter(t *testing.T) {
	// fixed timestamps so the time-range assertions are deterministic
	l, err := Restore("c1", []models.Message{
		{Index: 0, Sender: "alice", Content: "hello", Type: models.TypeText, TS: 100},
		{Index: 1, Sender: "system", Content: "joined", Type: models.TypeSystem, TS: 200},
		{Index: 2, Sender: "alice", Content: "more", Type: models.TypeText, TS: 300},
	}, nil, nil)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	var bySender []int
	for m := range l.Filter(Query{Sender: "alice"}) {
		bySender = append(bySender, m.Index)
	}
	if len(bySender) != 2 || bySender[0] != 0 || bySender[1] != 2 {
		t.Fatalf("sender filter: expected [0 2], got %v", bySender)
	}

	var byType []int
	for m := range l.Filter(Query{Type: models.TypeSystem}) {
		byType = append(byType, m.Index)
	}
	if len(byType) != 1 || byType[0] != 1 {
		t.Fatalf("type filter: expected [1], got %v", byType)
	}

	// time range: [200, 300) holds exactly message 1
	var byTime []int
	for m := range l.Filter(Query{Since: 200, Until: 300}) {
		byTime = append(byTime, m.Index)
	}
	if len(byTime) != 1 || byTime[0] != 1 {
		t.Fatalf("time filter: expected [1], got %v", byTime)
	}
}

func TestReactions(t *testing.T) {
	l := NewLog("c1")
	idx, _ := l.Append("alice", "hi", models.TypeText, nil)

	if err := l.AddReaction(5, "bob", "👍"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
	if err := l.AddReaction(idx, "bob", "👍"); err != nil {
		t.Fatalf("add reaction: %v", err)
	}
	// duplicates are kept, not replaced
	if err := l.AddReaction(idx, "bob", "👍"); err != nil {
		t.Fatalf("add duplicate reaction: %v", err)
	}
	if n := l.ReactionCount(idx); n != 2 {
		t.Fatalf("expected 2 reactions, got %d", n)
	}
	rs := l.ReactionsOf(idx)
	if len(rs) != 2 || rs[0].User != "bob" || rs[0].Reaction != "👍" {
		t.Fatalf("unexpected reactions: %+v", rs)
	}
	if got := l.ReactionsPerMessage(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected per-message counts [2], got %v", got)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	l := NewLog("c1")
	root, _ := l.Append("alice", "root", models.TypeText, nil)
	if _, err := l.Append("bob", "reply", models.TypeText, &root); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.AddReaction(root, "bob", "🎉"); err != nil {
		t.Fatalf("reaction: %v", err)
	}

	restored, err := Restore("c1", l.Messages(), l.AllReactions(), nil)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("expected 2 restored messages, got %d", restored.Len())
	}
	if rs := restored.RepliesOf(root); len(rs) != 1 || rs[0] != 1 {
		t.Fatalf("expected restored replies [1], got %v", rs)
	}
	if n := restored.ReactionCount(root); n != 1 {
		t.Fatalf("expected 1 restored reaction, got %d", n)
	}
}

func TestRestoreRejectsCorruptJournal(t *testing.T) {
	bad := []models.Message{{Index: 3, Sender: "a", Type: models.TypeText}}
	if _, err := Restore("c1", bad, nil, nil); err == nil {
		t.Fatalf("expected error for non-dense indices")
	}
	fwd := 1
	badRef := []models.Message{{Index: 0, Sender: "a", Type: models.TypeText, ThreadID: &fwd}}
	if _, err := Restore("c1", badRef, nil, nil); err == nil {
		t.Fatalf("expected error for forward thread reference")
	}
	orphan := []models.Reaction{{MessageIndex: 9, User: "b", Reaction: "x"}}
	if _, err := Restore("c1", nil, orphan, nil); err == nil {
		t.Fatalf("expected error for orphaned reaction")
	}
}
