package user

import (
	"context"
	"errors"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type userRepo interface {
	AllUsers(ctx context.Context) ([]models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserService struct {
	log      logger.Log
	userRepo userRepo
}

func NewUserService(l logger.Log, repo userRepo) *UserService {
	return &UserService{log: l, userRepo: repo}
}

func (s *UserService) AllUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.AllUsers(ctx)
}

func (s *UserService) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.UserByID(ctx, id)
}

// UpdateUser changes the email and/or password. Empty fields keep the
// stored value; a new password is re-hashed with the same algorithm
// used at creation. Username is immutable.
func (s *UserService) UpdateUser(ctx context.Context, id int64, email, password string) (*models.User, error) {
	user, err := s.userRepo.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, app_errors.ErrUpdateUser
		}
		user.Password = string(hashed)
	}

	updated, err := s.userRepo.UpdateUser(ctx, *user)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, err
		}
		s.log.ErrorErr("failed to update user", err, "user_id", id)
		return nil, app_errors.ErrUpdateUser
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return err
		}
		s.log.ErrorErr("failed to delete user", err, "user_id", id)
		return app_errors.ErrDeleteUser
	}
	return nil
}
