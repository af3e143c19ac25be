package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/campusfest/festreg/internal/domain/registration"
)

// RegistrationsRepo mirrors the postgres repo surface over a map, mostly
// for handler tests. The mutex plays the role of the unique index: the
// duplicate-email check and the insert happen under one lock.
type RegistrationsRepo struct {
	mu    sync.RWMutex
	items map[string]registration.Registration
}

func NewRegistrationsRepo() *RegistrationsRepo {
	return &RegistrationsRepo{
		items: make(map[string]registration.Registration),
	}
}

func (r *RegistrationsRepo) Create(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == reg.Email {
			return registration.Registration{}, registration.ErrDuplicateEmail
		}
	}

	r.items[reg.ID] = reg
	return reg, nil
}

func (r *RegistrationsRepo) ListAll(ctx context.Context) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration.Registration, 0, len(r.items))

	for _, reg := range r.items {
		out = append(out, reg)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegistrationDate.Equal(out[j].RegistrationDate) {
			return out[i].RegistrationDate.After(out[j].RegistrationDate)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *RegistrationsRepo) UpdateAttendance(ctx context.Context, id string, isPresent bool) (registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.items[id]

	if !ok {
		return registration.Registration{}, registration.ErrNotFound
	}

	reg.IsPresent = isPresent
	r.items[id] = reg
	return reg, nil
}

func (r *RegistrationsRepo) UpdatePayment(ctx context.Context, id string, method *string) (registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.items[id]

	if !ok {
		return registration.Registration{}, registration.ErrNotFound
	}

	reg.PaymentMethod = method
	r.items[id] = reg
	return reg, nil
}

func (r *RegistrationsRepo) DistinctEvents(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, reg := range r.items {
		for _, e := range reg.SelectedEvents {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}

	sort.Strings(out)
	return out, nil
}
