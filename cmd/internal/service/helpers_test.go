package service

import (
	"context"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/domain/sqlite"
	"slotly/cmd/internal/domain/sqlite/repository"
	"slotly/cmd/internal/security"
	"slotly/cmd/internal/utils/validators"
	"testing"
	"time"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

type testEnv struct {
	users  *DefaultUserService
	appts  *DefaultAppointmentService
	tokens *jwtTokenService
	now    time.Time
}

// newTestEnv builds both services over a fresh in-memory database. The token
// clock reads env.now, so tests can move time forward.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Init(sqlite.MemoryDSN)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	validate := validator.New()
	validators.Register(validate)

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to create hasher: %v", err)
	}

	env := &testEnv{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	env.tokens, err = newJWTTokenService([]byte(testSecret), func() time.Time { return env.now })
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	env.users = NewUserService(repository.NewUserRepository(db), hasher, env.tokens, validate, nil)
	env.appts = NewAppointmentService(repository.NewAppointmentRepository(db), validate, nil)
	return env
}

// register creates an account with the given role and returns its identity.
func (e *testEnv) register(t *testing.T, username string, role entity.Role) *entity.Identity {
	t.Helper()
	user, apierr := e.users.SeedUser(context.Background(), username, "password123", role)
	if apierr != nil {
		t.Fatalf("Failed to seed user %s: %v", username, apierr)
	}
	return &entity.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
}

func (e *testEnv) book(t *testing.T, identity *entity.Identity, slot string) *AppointmentResponse {
	t.Helper()
	appt, apierr := e.appts.CreateAppointment(context.Background(), &AppointmentRequest{Time: slot}, identity)
	if apierr != nil {
		t.Fatalf("Failed to book %s: %v", slot, apierr)
	}
	return appt
}

func (e *testEnv) transition(t *testing.T, id string, status entity.Status, identity *entity.Identity) *AppointmentResponse {
	t.Helper()
	appt, apierr := e.appts.Transition(context.Background(), id, &StatusRequest{Status: string(status)}, identity)
	if apierr != nil {
		t.Fatalf("Transition(%s -> %s) error = %v", id, status, apierr)
	}
	return appt
}
