package simplecms

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Account operations

func (s *service) Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, ErrSigningSecretMissing
	}

	if _, err := s.repository.GetUserByName(ctx, cmd.Name); err == nil {
		return nil, ErrUserNameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("look up user %q: %w", cmd.Name, err)
	}

	hash, err := s.hashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &User{
		Name:      cmd.Name,
		Password:  hash,
		Author:    cmd.Author,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *service) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	user, err := s.repository.GetUserByName(ctx, cmd.Name)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrIncorrectCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user %q: %w", cmd.Name, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(cmd.Password)); err != nil {
		return nil, ErrIncorrectCredentials
	}

	if s.tokens == nil {
		return nil, ErrSigningSecretMissing
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repository.GetUser(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*User, error) {
	user, err := s.repository.GetUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != "" && cmd.Name != user.Name {
		other, err := s.repository.GetUserByName(ctx, cmd.Name)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, ErrUserNameExists
		case err != nil && !errors.Is(err, ErrUserNotFound):
			return nil, fmt.Errorf("look up user %q: %w", cmd.Name, err)
		}
		user.Name = cmd.Name
	}
	if cmd.Author != "" {
		user.Author = cmd.Author
	}
	if cmd.Email != "" {
		user.Email = cmd.Email
	}
	if cmd.Phone != "" {
		user.Phone = cmd.Phone
	}
	if cmd.Password != "" {
		hash, err := s.hashPassword(cmd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	user.UpdatedAt = s.now()

	if err := s.repository.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return user, nil
}

func (s *service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
