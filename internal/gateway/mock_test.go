package gateway

import (
	"context"
	"testing"
)

func TestMockInsertDeterministic(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	stmt := `INSERT INTO tickets (name, email) VALUES ($1, $2) RETURNING id`
	id1, err := m.InsertAndGetID(ctx, stmt, "Jane Doe", "jane@x.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := m.InsertAndGetID(ctx, stmt, "Jane Doe", "jane@x.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected identical ids for identical input, got %d and %d", id1, id2)
	}
	if id1 < 1000 || id1 >= 10000 {
		t.Fatalf("expected id in [1000, 10000), got %d", id1)
	}
}

func TestMockInsertVariesWithArgs(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	stmt := `INSERT INTO tickets (name) VALUES ($1) RETURNING id`
	id1, _ := m.InsertAndGetID(ctx, stmt, "alpha")
	id2, _ := m.InsertAndGetID(ctx, stmt, "beta")
	if id1 == id2 {
		t.Fatalf("expected different ids for different args, got %d twice", id1)
	}
}

func TestMockNeverRaisesOnOddInput(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	if _, err := m.InsertAndGetID(ctx, "", nil, 3.14, []byte("x")); err != nil {
		t.Fatalf("mock insert returned error: %v", err)
	}
	affected, err := m.Exec(ctx, "UPDATE nothing SET x = $1", "y")
	if err != nil {
		t.Fatalf("mock exec returned error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected row, got %d", affected)
	}
}

func TestMockWithTxRunsFn(t *testing.T) {
	m := NewMock()
	called := false
	err := m.WithTx(context.Background(), func(r Runner) error {
		called = true
		_, err := r.Exec(context.Background(), "UPDATE t SET x = 1 WHERE id = $1", 7)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("transaction body not executed")
	}
}
