package events

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type testEvent struct {
	BaseEvent
	payload string
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var got []string
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		got = append(got, "first:"+e.(testEvent).payload)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		got = append(got, "second:"+e.(testEvent).payload)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "hello"}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(got) != 2 || got[0] != "first:hello" || got[1] != "second:hello" {
		t.Fatalf("handlers did not all run in order: %v", got)
	}
}

func TestPublishSyncReturnsFirstErrorButRunsRest(t *testing.T) {
	bus := NewInMemoryBus(nil)
	wantErr := errors.New("boom")
	ran := false

	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		ran = true
		return errors.New("later")
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), ""})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected first error, got %v", err)
	}
	if !ran {
		t.Fatal("later handlers must still run after an error")
	}
}

func TestPublishSyncRecoversPanic(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		panic("handler bug")
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), ""})
	if err == nil {
		t.Fatal("panicking handler should surface as an error")
	}
}

func TestPublishAsyncDelivers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, e Event) error {
		defer wg.Done()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), ""})
	wg.Wait()
}

func TestPublishNoSubscribersIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), ""}); err != nil {
		t.Fatalf("no subscribers should be fine: %v", err)
	}
}
