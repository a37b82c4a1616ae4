package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
)

func TestMockClient_Search(t *testing.T) {
	client := New().WithItems(`{"id":"1"}`, `{"id":"2"}`)

	page, err := client.Search(context.Background(), "events", map[string]any{"keyword": "jazz"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(page.Items) != 2 {
		t.Errorf("Search() got %d items, want 2", len(page.Items))
	}
	last := client.LastSearch()
	if last.Resource != "events" || last.Params["keyword"] != "jazz" {
		t.Errorf("LastSearch() = %+v", last)
	}
}

func TestMockClient_GetByID(t *testing.T) {
	client := New().WithObject("evt-1", `{"id":"evt-1"}`)

	raw, err := client.GetByID(context.Background(), "events", "evt-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if string(raw) != `{"id":"evt-1"}` {
		t.Errorf("GetByID() = %s", raw)
	}

	_, err = client.GetByID(context.Background(), "events", "missing")
	if !errors.Is(err, discovery.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}

	if len(client.FetchCalls) != 2 {
		t.Errorf("FetchCalls = %d, want 2", len(client.FetchCalls))
	}
}

func TestMockClient_Error(t *testing.T) {
	client := New().WithError(discovery.ErrRequestFailed)

	_, err := client.Search(context.Background(), "venues", nil)
	if err != discovery.ErrRequestFailed {
		t.Errorf("Search() error = %v, want ErrRequestFailed", err)
	}
}

func TestMockClient_ContextCancellation(t *testing.T) {
	client := New().WithItems(`{}`).WithDelay(1 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "events", nil)
	if err != context.DeadlineExceeded {
		t.Errorf("Search() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestMockClient_Reset(t *testing.T) {
	client := New()
	client.Search(context.Background(), "events", nil)
	client.GetByID(context.Background(), "events", "x")

	client.Reset()

	if len(client.SearchCalls) != 0 || len(client.FetchCalls) != 0 {
		t.Error("Reset() should clear recorded calls")
	}
}
