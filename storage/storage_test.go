package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/agentrt/hostcore/convo"
)

func TestMemoryProvider_AppendIsOrdered(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	if _, err := p.Append(ctx, "agent", "key", convo.Message{Content: "first"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	h, err := p.Append(ctx, "agent", "key", convo.Message{Content: "second"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(h.Messages) != 2 || h.Messages[0].Content != "first" || h.Messages[1].Content != "second" {
		t.Fatalf("expected ordered messages, got %+v", h.Messages)
	}
}

func TestMemoryProvider_ConcurrentAppendsSameKeySerialize(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = p.Append(ctx, "agent", "shared-key", convo.Message{Content: "m"})
		}(i)
	}
	wg.Wait()

	h, err := p.Load(ctx, "agent", "shared-key")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(h.Messages) != n {
		t.Fatalf("expected %d messages with no lost writes, got %d", n, len(h.Messages))
	}
}

func TestMemoryProvider_IndependentKeysDoNotInterfere(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	if _, err := p.Append(ctx, "agent", "key-a", convo.Message{Content: "a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := p.Append(ctx, "agent", "key-b", convo.Message{Content: "b"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ha, _ := p.Load(ctx, "agent", "key-a")
	hb, _ := p.Load(ctx, "agent", "key-b")
	if len(ha.Messages) != 1 || len(hb.Messages) != 1 {
		t.Fatalf("expected each key to hold only its own message, got %+v / %+v", ha, hb)
	}
}

func TestMemoryProvider_Delete(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()
	_, _ = p.Append(ctx, "agent", "key", convo.Message{Content: "x"})
	if err := p.Delete(ctx, "agent", "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	h, _ := p.Load(ctx, "agent", "key")
	if len(h.Messages) != 0 {
		t.Fatal("expected history to be empty after delete")
	}
}
