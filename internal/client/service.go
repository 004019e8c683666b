package client

import (
	"context"
	"strings"
)

type UpsertRequest struct {
	Email string
	Name  string
	Phone *string
}

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*Client, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var phone *string
	if req.Phone != nil {
		if p := strings.TrimSpace(*req.Phone); p != "" {
			phone = &p
		}
	}

	c := &Client{
		Email: email,
		Name:  name,
		Phone: phone,
	}

	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Client, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}
