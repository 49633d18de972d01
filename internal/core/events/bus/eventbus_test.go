package bus

import (
	"errors"
	"testing"
	"time"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	called := 0
	_, err := b.Subscribe("test.event", func(e Event) error {
		called++
		if e.Data() != 123 {
			t.Fatalf("unexpected payload %v", e.Data())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("test.event", "tester", 123)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called != 1 {
		t.Fatalf("handler called %d times", called)
	}
}

func TestDeliveryOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, _ = b.Subscribe("ev", func(Event) error { order = append(order, i); return nil })
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	for i, v := range order {
		if v != i {
			t.Fatalf("delivery out of order: %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("one")
	e2 := errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })
	err := b.Publish(NewEvent("x", "src", nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if err = b.PublishBatch(NewEvent("x", "src", nil), NewEvent("y", "src", nil)); !errors.Is(err, e1) {
		t.Fatalf("batch: expected joined error, got %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	sub, _ := b.Subscribe("ev", func(Event) error { count++; return nil })
	_ = b.Publish(NewEvent("ev", "src", nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	if err := sub.Cancel(); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestCancelDuringDelivery(t *testing.T) {
	b := New()
	var second Subscription
	secondCalled := false
	_, _ = b.Subscribe("ev", func(Event) error { return second.Cancel() })
	second, _ = b.Subscribe("ev", func(Event) error { secondCalled = true; return nil })
	_ = b.Publish(NewEvent("ev", "src", nil))
	if secondCalled {
		t.Fatal("cancelled handler was still called")
	}
}

func TestObserverMetrics(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	b.AddObserver(obs)
	_, _ = b.Subscribe("ev", func(Event) error { return nil })
	_, _ = b.Subscribe("ev", func(Event) error { return errors.New("bad") })
	_ = b.Publish(NewEvent("ev", "src", nil))

	if obs.publishCount != 1 || obs.deliveredCount != 2 || obs.lastErr == nil {
		t.Fatalf("observer mismatch: %+v", obs)
	}
	m := b.GetMetrics()
	if m.Published != 1 || m.DeliveredHandlers != 2 || m.Errors != 1 || m.SubscribersActive != 2 {
		t.Fatalf("metrics mismatch: %+v", m)
	}

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("ev", "src", nil))
	if obs.publishCount != 1 {
		t.Fatalf("removed observer still notified")
	}
}

func TestMetricsWithoutObservers(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("ev", func(Event) error { return nil })
	_ = b.Publish(NewEvent("ev", "src", nil))
	_ = b.Publish(NewEvent("ev", "src", nil))
	_ = b.Publish(NewEvent("other", "src", nil))

	m := b.GetMetrics()
	if m.Published != 3 || m.DeliveredHandlers != 2 || m.Errors != 0 || m.SubscribersActive != 1 {
		t.Fatalf("metrics mismatch: %+v", m)
	}
}

func TestNilHandler(t *testing.T) {
	if _, err := New().Subscribe("ev", nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
