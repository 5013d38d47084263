package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"userdir/internal/cache"
	"userdir/internal/dto"
	apperrors "userdir/internal/errors"
	"userdir/internal/model"
	"userdir/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// UserService exposes the directory's domain operations.
type UserService interface {
	List(ctx context.Context, roleFilter string) ([]model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int, req dto.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	log   *slog.Logger
}

// NewUserService builds a UserService with repository, cache, and logger.
func NewUserService(repo repository.UserRepository, cache *cache.Client, log *slog.Logger) UserService {
	if log == nil {
		log = slog.Default()
	}
	return &userService{repo: repo, cache: cache, log: log}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// cachedUser carries the credential hash through the cache, which the
// model's json:"-" tag would otherwise drop, so a cache hit returns the same
// field values as a storage read.
type cachedUser struct {
	User         model.User `json:"user"`
	PasswordHash string     `json:"password_hash"`
}

func encodeUser(u *model.User) ([]byte, error) {
	return json.Marshal(cachedUser{User: *u, PasswordHash: u.PasswordHash})
}

func decodeUser(data []byte) (*model.User, error) {
	var c cachedUser
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	u := c.User
	u.PasswordHash = c.PasswordHash
	return &u, nil
}

// hashPassword derives the stored credential. The DTO rules cap passwords at
// 72 characters, but bcrypt's limit is 72 bytes, so a multibyte password can
// still trip it; that is client input, not a storage failure.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &apperrors.ValidationError{Fields: []string{"Password must not exceed 72 characters"}}
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// List returns all users, or only those holding the given role. A filter
// outside the recognized role set is reported the same way as a valid filter
// that matches nobody.
func (s *userService) List(ctx context.Context, roleFilter string) ([]model.User, error) {
	if roleFilter == "" {
		users, err := s.repo.List(ctx, nil)
		if err != nil {
			s.log.Error("list users failed", "error", err)
			return nil, err
		}
		s.log.Info("listed users", "count", len(users))
		return users, nil
	}

	role := model.Role(roleFilter)
	if !role.Valid() {
		s.log.Warn("unknown role filter", "role", roleFilter)
		return nil, apperrors.ErrRoleNotFound
	}

	users, err := s.repo.List(ctx, &role)
	if err != nil {
		s.log.Error("list users failed", "error", err, "role", roleFilter)
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrRoleNotFound
	}
	s.log.Info("listed users", "count", len(users), "role", roleFilter)
	return users, nil
}

// Get returns the user with the given id, serving repeated reads from the
// cache when possible.
func (s *userService) Get(ctx context.Context, id int) (*model.User, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidUserID
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(uint(id))); data != nil {
		if cached, err := decodeUser(data); err == nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, uint(id))
	if err != nil {
		s.log.Warn("get user failed", "error", err, "id", id)
		return nil, err
	}

	if payload, err := encodeUser(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(user.ID), payload, userCacheTTL)
	}
	return user, nil
}

// Create validates the request, enforces email uniqueness, hashes the
// password, and inserts the new user. Validation failures short-circuit
// before any storage access.
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		s.log.Warn("create user rejected", "error", err)
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Warn("create user conflict", "email", req.Email)
		return nil, apperrors.ErrEmailExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))

	s.log.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// Update applies only the supplied fields, re-checking email uniqueness when
// the email changes and re-hashing the password when one is supplied.
func (s *userService) Update(ctx context.Context, id int, req dto.UpdateUserRequest) (*model.User, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidUserID
	}
	// Read the row directly so the merge never starts from a stale cache entry.
	user, err := s.repo.FindByID(ctx, uint(id))
	if err != nil {
		s.log.Warn("update user failed", "error", err, "id", id)
		return nil, err
	}

	if err := req.Validate(); err != nil {
		s.log.Warn("update user rejected", "error", err, "id", id)
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.log.Warn("update user conflict", "id", id, "email", *req.Email)
			return nil, apperrors.ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))

	s.log.Info("user updated", "id", user.ID)
	return user, nil
}

// Delete removes the user with the given id.
func (s *userService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return apperrors.ErrInvalidUserID
	}
	if _, err := s.repo.FindByID(ctx, uint(id)); err != nil {
		s.log.Warn("delete user failed", "error", err, "id", id)
		return err
	}
	if err := s.repo.Delete(ctx, uint(id)); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(uint(id)))

	s.log.Info("user deleted", "id", id)
	return nil
}
