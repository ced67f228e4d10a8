package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestExecuteAllStepsSucceed(t *testing.T) {
	var order []string

	s := New(zerolog.Nop())
	s.Add(Step{
		Name: "first",
		Run: func(context.Context) error {
			order = append(order, "first")
			return nil
		},
		Compensate: func(context.Context) error {
			t.Fatal("compensation must not run on success")
			return nil
		},
	})
	s.Add(Step{
		Name: "second",
		Run: func(context.Context) error {
			order = append(order, "second")
			return nil
		},
	})

	if err := s.Execute(context.Background()); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected step order: %v", order)
	}
}

func TestExecuteCompensatesInReverseOrder(t *testing.T) {
	var undone []string
	boom := errors.New("insert failed")

	s := New(zerolog.Nop())
	s.Add(Step{
		Name: "a",
		Run:  func(context.Context) error { return nil },
		Compensate: func(context.Context) error {
			undone = append(undone, "a")
			return nil
		},
	})
	s.Add(Step{
		Name: "b",
		Run:  func(context.Context) error { return nil },
		Compensate: func(context.Context) error {
			undone = append(undone, "b")
			return nil
		},
	})
	s.Add(Step{
		Name: "c",
		Run:  func(context.Context) error { return boom },
		Compensate: func(context.Context) error {
			t.Fatal("failed step must not be compensated")
			return nil
		},
	})

	err := s.Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(undone) != 2 || undone[0] != "b" || undone[1] != "a" {
		t.Fatalf("expected reverse-order compensation, got %v", undone)
	}
}

func TestExecuteCompensationFailureDoesNotMaskError(t *testing.T) {
	boom := errors.New("member insert failed")

	s := New(zerolog.Nop())
	s.Add(Step{
		Name: "insert group",
		Run:  func(context.Context) error { return nil },
		Compensate: func(context.Context) error {
			return errors.New("delete also failed")
		},
	})
	s.Add(Step{
		Name: "insert member",
		Run:  func(context.Context) error { return boom },
	})

	err := s.Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error to survive compensation failure, got %v", err)
	}
}

func TestExecuteFirstStepFailureCompensatesNothing(t *testing.T) {
	boom := errors.New("conflict")

	s := New(zerolog.Nop())
	s.Add(Step{
		Name: "only",
		Run:  func(context.Context) error { return boom },
		Compensate: func(context.Context) error {
			t.Fatal("nothing was committed, nothing to undo")
			return nil
		},
	})

	if err := s.Execute(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
}
