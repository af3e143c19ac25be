package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/campusfest/festreg/internal/domain/registration"
	"github.com/google/uuid"
)

func newReg(email string, events []string, at time.Time) registration.Registration {
	return registration.Registration{
		ID:               uuid.NewString(),
		Name:             "A",
		Email:            email,
		Contact:          "9876543210",
		College:          "X",
		Course:           "Y",
		Sem:              "1",
		SelectedEvents:   events,
		RegistrationDate: at,
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewRegistrationsRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.Create(ctx, newReg("a@b.com", []string{"quiz"}, now)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := repo.Create(ctx, newReg("a@b.com", []string{"dance"}, now))

	if !errors.Is(err, registration.ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}

	regs, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("duplicate create must not add a record, have %d", len(regs))
	}
}

func TestListAllNewestFirst(t *testing.T) {
	repo := NewRegistrationsRepo()
	ctx := context.Background()
	base := time.Now().UTC()

	older := newReg("old@b.com", []string{"quiz"}, base.Add(-time.Hour))
	newer := newReg("new@b.com", []string{"quiz"}, base)

	for _, r := range []registration.Registration{older, newer} {
		if _, err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	regs, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if regs[0].Email != "new@b.com" || regs[1].Email != "old@b.com" {
		t.Fatalf("not newest first: %v, %v", regs[0].Email, regs[1].Email)
	}
}

func TestUpdateAttendance(t *testing.T) {
	repo := NewRegistrationsRepo()
	ctx := context.Background()

	reg, err := repo.Create(ctx, newReg("a@b.com", []string{"quiz"}, time.Now().UTC()))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.UpdateAttendance(ctx, reg.ID, true)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsPresent {
		t.Fatal("isPresent not set")
	}

	_, err = repo.UpdateAttendance(ctx, uuid.NewString(), true)
	if !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpdatePayment(t *testing.T) {
	repo := NewRegistrationsRepo()
	ctx := context.Background()

	reg, err := repo.Create(ctx, newReg("a@b.com", []string{"quiz"}, time.Now().UTC()))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cash := registration.PaymentCash

	updated, err := repo.UpdatePayment(ctx, reg.ID, &cash)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PaymentMethod == nil || *updated.PaymentMethod != "cash" {
		t.Fatalf("payment not set: %v", updated.PaymentMethod)
	}

	// null clears back to unset
	cleared, err := repo.UpdatePayment(ctx, reg.ID, nil)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cleared.PaymentMethod != nil {
		t.Fatal("payment not cleared")
	}

	_, err = repo.UpdatePayment(ctx, uuid.NewString(), &cash)
	if !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDistinctEvents(t *testing.T) {
	repo := NewRegistrationsRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []registration.Registration{
		newReg("a@b.com", []string{"quiz", "dance"}, now),
		newReg("b@b.com", []string{"dance", "hackathon"}, now),
	}

	for _, r := range seed {
		if _, err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	events, err := repo.DistinctEvents(ctx)
	if err != nil {
		t.Fatalf("distinct failed: %v", err)
	}

	want := []string{"dance", "hackathon", "quiz"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("got %v, want %v", events, want)
	}
}
