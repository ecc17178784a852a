package moderation_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/arunika-id/arunika-admin/internal/moderation"
	_ "github.com/arunika-id/arunika-admin/testing"
)

const (
	draft     moderation.Status = "DRAFT"
	published moderation.Status = "PUBLISHED"
	archived  moderation.Status = "ARCHIVED"

	effectAnnounce moderation.SideEffect = "ANNOUNCE"
)

func newTestTable() moderation.Table {
	return moderation.NewTable("post", map[moderation.Status][]moderation.Edge{
		draft: {
			{To: published, SideEffects: []moderation.SideEffect{effectAnnounce}},
			{To: archived},
		},
		published: {
			{To: archived},
		},
	})
}

func TestTransitionLegal(t *testing.T) {
	table := newTestTable()

	res, err := table.Transition(draft, published)
	if err != nil {
		t.Fatalf("legal transition failed: %v", err)
	}
	if res.NextStatus != published {
		t.Fatalf("expected %s, got %s", published, res.NextStatus)
	}
	if !reflect.DeepEqual(res.SideEffects, []moderation.SideEffect{effectAnnounce}) {
		t.Fatalf("expected announce effect, got %v", res.SideEffects)
	}
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	table := newTestTable()

	// Every status is idempotent against itself, including terminal and
	// unknown ones.
	for _, status := range []moderation.Status{draft, published, archived, "UNKNOWN"} {
		res, err := table.Transition(status, status)
		if err != nil {
			t.Fatalf("re-submitting %s must succeed: %v", status, err)
		}
		if res.NextStatus != status {
			t.Fatalf("no-op must keep status %s, got %s", status, res.NextStatus)
		}
		if len(res.SideEffects) != 0 {
			t.Fatalf("no-op must propose no side effects, got %v", res.SideEffects)
		}
	}
}

func TestTransitionIllegal(t *testing.T) {
	table := newTestTable()

	res, err := table.Transition(archived, published)
	if err == nil {
		t.Fatalf("expected illegal transition error")
	}
	var illegal *moderation.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected *IllegalTransitionError, got %T", err)
	}
	if illegal.Domain != "post" || illegal.Current != archived || illegal.Requested != published {
		t.Fatalf("error must carry domain and both statuses: %+v", illegal)
	}
	if len(res.SideEffects) != 0 {
		t.Fatalf("failed transition must propose no side effects")
	}
}

func TestLegalOrder(t *testing.T) {
	table := newTestTable()

	want := []moderation.Status{published, archived}
	if got := table.Legal(draft); !reflect.DeepEqual(got, want) {
		t.Fatalf("Legal(draft) = %v, want %v", got, want)
	}
	if got := table.Legal(archived); len(got) != 0 {
		t.Fatalf("terminal status must list no targets, got %v", got)
	}
}

func TestTerminal(t *testing.T) {
	table := newTestTable()

	if table.Terminal(draft) {
		t.Fatalf("draft has outgoing edges")
	}
	if !table.Terminal(archived) {
		t.Fatalf("archived must be terminal")
	}
}

func TestNewTableCopiesEdges(t *testing.T) {
	edges := map[moderation.Status][]moderation.Edge{
		draft: {{To: published}},
	}
	table := moderation.NewTable("post", edges)

	edges[draft][0].To = archived

	res, err := table.Transition(draft, published)
	if err != nil || res.NextStatus != published {
		t.Fatalf("table must not alias caller-owned edge slices: %v %v", res, err)
	}
}
