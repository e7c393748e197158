package service

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/domain/sqlite/repository"
	"slotly/cmd/internal/metrics"
	"slotly/cmd/internal/security"
	"slotly/cmd/internal/utils"
	"slotly/cmd/internal/utils/apierror"
	"sync"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *entity.User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string)
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,notblank,max=72"`
}

// LoginRequest carries no length limits: an over-long username or password is
// just another credential mismatch.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

type RegisterResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type UserLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Hasher   PasswordHasher
	Tokens   TokenService
	Validate *validator.Validate
	Metrics  *metrics.Metrics

	// serializes the duplicate check with the insert
	mu sync.Mutex
}

func NewUserService(userRepo UserRepository, hasher PasswordHasher, tokens TokenService, validate *validator.Validate, m *metrics.Metrics) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Hasher: hasher, Tokens: tokens, Validate: validate, Metrics: m}
}

// Register stores a new requester. Duplicate usernames are reported
// explicitly, unlike Login which never says which part was wrong.
func (u *DefaultUserService) Register(ctx context.Context, req *CredentialsRequest) (*RegisterResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.createUser(ctx, req.Username, req.Password, entity.RoleRequester)
	if apierr != nil {
		return nil, apierr
	}
	return &RegisterResponse{UserID: user.ID, Username: user.Username}, nil
}

// SeedUser creates an account with an explicit role. It is only reachable
// from startup wiring; the HTTP surface always registers requesters.
func (u *DefaultUserService) SeedUser(ctx context.Context, username, password string, role entity.Role) (*entity.User, apierror.ErrorResponse) {
	req := &CredentialsRequest{Username: username, Password: password}
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	return u.createUser(ctx, username, password, role)
}

func (u *DefaultUserService) createUser(ctx context.Context, username, password string, role entity.Role) (*entity.User, apierror.ErrorResponse) {
	// hash before taking the lock, bcrypt is the slow part
	hash, err := u.Hasher.Hash(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, apierror.PasswordTooLongError
	}
	if err != nil {
		log.Errorf("failed to hash password for %s: %v", username, err)
		return nil, apierror.InternalServerError
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	found, err := u.UserRepo.ExistsByUsername(ctx, username)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.DuplicateUsernameError
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    utils.NowUTC(),
	}

	err = u.UserRepo.Save(ctx, user)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, apierror.DuplicateUsernameError
	}
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

// VerifyCredentials returns the user only when the username exists and the
// password matches. Both failure cases give InvalidCredentialsError and cost
// one bcrypt comparison.
func (u *DefaultUserService) VerifyCredentials(ctx context.Context, username, password string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		u.Hasher.CompareDummy(password)
		return nil, apierror.InvalidCredentialsError
	}

	err = u.Hasher.Compare(user.PasswordHash, password)
	if errors.Is(err, security.ErrMismatch) {
		return nil, apierror.InvalidCredentialsError
	}
	if err != nil {
		log.Errorf("failed to verify password for user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func (u *DefaultUserService) Login(ctx context.Context, req *LoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.VerifyCredentials(ctx, req.Username, req.Password)
	if apierr != nil {
		if apierr == apierror.InvalidCredentialsError {
			u.Metrics.AuthRejected("invalid_credentials")
		}
		return nil, apierr
	}

	token, err := u.Tokens.Issue(&entity.Identity{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		log.Errorf("failed to issue token for user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &UserLoginResponse{Token: token, Username: user.Username, UserID: user.ID}, nil
}
