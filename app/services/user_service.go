package services

import (
	"context"
	"errors"
	"fmt"

	"reeltalk/app/models"
	"reeltalk/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and admin promotion
type UserService struct {
	userRepo repositories.UserRepository
	hashCost int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost. Tests lower it to bcrypt.MinCost.
func (s *UserService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Register validates the form and stores a new user with a hashed password.
// Validation problems come back as models.FieldErrors; a taken email as
// ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, form models.RegistrationForm) (*models.User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	hash, err := hashPassword(form.Password, s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.FieldErrors{"senha": "Senha muito longa"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  form.Username,
		Name:      form.Name,
		Password:  hash,
		Email:     form.Email,
		Birthdate: form.Birthdate,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user whose email matches exactly and whose stored
// hash verifies against password. Every mismatch yields ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !checkPasswordHash(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Promote grants admin rights to the user with the given email.
func (s *UserService) Promote(ctx context.Context, email string) error {
	return s.userRepo.SetAdmin(ctx, email, true)
}
