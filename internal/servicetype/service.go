package servicetype

import (
	"context"
	"strings"
)

type CreateRequest struct {
	ProfessionalID  string
	Name            string
	DurationMinutes int
	Description     *string
	IsActive        *bool
}

type UpdateRequest struct {
	Name            *string
	DurationMinutes *int
	Description     *string
	IsActive        *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ServiceType, error)
	GetByID(ctx context.Context, id string) (*ServiceType, error)
	List(ctx context.Context, filter Filter) ([]*ServiceType, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*ServiceType, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*ServiceType, error) {
	if req.ProfessionalID == "" {
		return nil, ErrProfessionalRequired
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	// New service types are active unless explicitly created inactive.
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	st := &ServiceType{
		ProfessionalID:  req.ProfessionalID,
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		IsActive:        active,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*ServiceType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*ServiceType, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*ServiceType, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		st.DurationMinutes = *req.DurationMinutes
	}
	if req.Description != nil {
		st.Description = req.Description
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	// Check existence
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
