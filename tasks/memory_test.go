package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
)

func seedMemory(t *testing.T, titles ...string) *Memory {
	t.Helper()
	m := NewMemory()
	for _, title := range titles {
		if _, err := m.Add(context.Background(), "ana", title); err != nil {
			t.Fatalf("Add %s: %v", title, err)
		}
	}
	return m
}

func TestMemoryAddAndList(t *testing.T) {
	m := seedMemory(t, "Comprar Leite", "Pagar Contas")
	ctx := context.Background()

	list, err := m.List(ctx, "ana", nlp.ScopeToday)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Comprar Leite" {
		t.Fatalf("List = %+v", list)
	}
	if list, _ := m.List(ctx, "bia", nlp.ScopeToday); len(list) != 0 {
		t.Fatalf("another user sees the list: %+v", list)
	}
}

func TestMemoryCompleteHidesFromListing(t *testing.T) {
	m := seedMemory(t, "A", "B", "C")
	ctx := context.Background()

	done, err := m.Complete(ctx, "ana", 2)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Title != "B" || !done.Done {
		t.Fatalf("Complete = %+v", done)
	}

	list, _ := m.List(ctx, "ana", nlp.ScopeToday)
	if len(list) != 2 || list[0].Title != "A" || list[1].Title != "C" {
		t.Fatalf("List after complete = %+v", list)
	}

	// Indices follow the current pending listing: "C" is now index 2.
	done, err = m.Complete(ctx, "ana", 2)
	if err != nil || done.Title != "C" {
		t.Fatalf("Complete(2) = %+v, %v", done, err)
	}
}

func TestMemoryRemove(t *testing.T) {
	m := seedMemory(t, "A", "B")
	ctx := context.Background()

	removed, err := m.Remove(ctx, "ana", 1)
	if err != nil || removed.Title != "A" {
		t.Fatalf("Remove = %+v, %v", removed, err)
	}
	list, _ := m.List(ctx, "ana", nlp.ScopeToday)
	if len(list) != 1 || list[0].Title != "B" {
		t.Fatalf("List after remove = %+v", list)
	}
}

func TestMemoryPostpone(t *testing.T) {
	m := seedMemory(t, "A")
	ctx := context.Background()

	moved, err := m.Postpone(ctx, "ana", 1, nlp.ScopeNone)
	if err != nil || moved.Scope != nlp.ScopeTomorrow {
		t.Fatalf("Postpone default = %+v, %v", moved, err)
	}
	if list, _ := m.List(ctx, "ana", nlp.ScopeToday); len(list) != 0 {
		t.Fatalf("postponed task still listed for today: %+v", list)
	}
	if list, _ := m.List(ctx, "ana", nlp.ScopeTomorrow); len(list) != 1 {
		t.Fatalf("postponed task missing from tomorrow: %+v", list)
	}
	if list, _ := m.List(ctx, "ana", nlp.ScopeAll); len(list) != 1 {
		t.Fatalf("all-scope listing = %+v", list)
	}
}

// Indices address the most recent listing: after a postpone, index 1 of the
// today listing must resolve to the task the user actually sees there.
func TestMemoryIndicesFollowListedScope(t *testing.T) {
	m := seedMemory(t, "A", "B")
	ctx := context.Background()

	if _, err := m.Postpone(ctx, "ana", 1, nlp.ScopeTomorrow); err != nil {
		t.Fatalf("Postpone: %v", err)
	}

	list, _ := m.List(ctx, "ana", nlp.ScopeToday)
	if len(list) != 1 || list[0].Title != "B" {
		t.Fatalf("today listing = %+v", list)
	}
	done, err := m.Complete(ctx, "ana", 1)
	if err != nil || done.Title != "B" {
		t.Fatalf("Complete(1) after today listing = %+v, %v", done, err)
	}

	// Listing tomorrow re-keys the indices to that listing.
	list, _ = m.List(ctx, "ana", nlp.ScopeTomorrow)
	if len(list) != 1 || list[0].Title != "A" {
		t.Fatalf("tomorrow listing = %+v", list)
	}
	done, err = m.Complete(ctx, "ana", 1)
	if err != nil || done.Title != "A" {
		t.Fatalf("Complete(1) after tomorrow listing = %+v, %v", done, err)
	}
}

func TestMemoryProgress(t *testing.T) {
	m := seedMemory(t, "A", "B", "C")
	ctx := context.Background()

	if _, err := m.Complete(ctx, "ana", 1); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	done, total, err := m.Progress(ctx, "ana")
	if err != nil || done != 1 || total != 3 {
		t.Fatalf("Progress = %d/%d, %v", done, total, err)
	}
}

func TestMemoryIndexOutOfRange(t *testing.T) {
	m := seedMemory(t, "A")
	ctx := context.Background()

	for _, index := range []int{0, -1, 2} {
		if _, err := m.Complete(ctx, "ana", index); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Complete(%d) err = %v, want ErrNotFound", index, err)
		}
	}
	if _, err := m.Remove(ctx, "ana", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove err = %v, want ErrNotFound", err)
	}
}
