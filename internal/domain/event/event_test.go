package event

import (
	"encoding/json"
	"testing"
)

func TestNewUserCreated(t *testing.T) {
	e := NewUserCreated("user-1", "a@b.com")

	if e.Name != UserCreated {
		t.Fatalf("expected %s got %s", UserCreated, e.Name)
	}
	if e.AggregateID != "user-1" {
		t.Fatalf("unexpected aggregate id %q", e.AggregateID)
	}
	if e.EventID == "" || e.OccurredOn.IsZero() {
		t.Fatalf("envelope must be populated")
	}
	if e.Created == nil || e.Created.Email != "a@b.com" {
		t.Fatalf("unexpected payload: %+v", e.Created)
	}
	if e.BalanceUpdated != nil {
		t.Fatalf("exactly one payload must be set")
	}
}

func TestNewUserBalanceUpdated(t *testing.T) {
	e := NewUserBalanceUpdated("user-1", 10, 25.5, "USD")

	if e.Name != UserBalanceUpdated {
		t.Fatalf("expected %s got %s", UserBalanceUpdated, e.Name)
	}
	p := e.BalanceUpdated
	if p == nil || p.PreviousBalance != 10 || p.NewBalance != 25.5 || p.Currency != "USD" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if e.Created != nil {
		t.Fatalf("exactly one payload must be set")
	}
}

func TestEvent_JSONOmitsAbsentPayload(t *testing.T) {
	raw, err := json.Marshal(NewUserCreated("user-1", "a@b.com"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["event_name"] != string(UserCreated) {
		t.Fatalf("unexpected event_name %v", decoded["event_name"])
	}
	if _, present := decoded["balance_updated"]; present {
		t.Fatalf("absent payload must be omitted from the wire shape")
	}
	if _, present := decoded["created"]; !present {
		t.Fatalf("set payload must be present")
	}
}
