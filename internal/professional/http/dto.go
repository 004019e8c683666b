package http

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/professional"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
}

type ProfessionalResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	Phone       *string    `json:"phone"`
	HasAvatar   bool       `json:"has_avatar"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewResponse(p *professional.Professional) ProfessionalResponse {
	return ProfessionalResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		HasAvatar:   p.AvatarPath != nil,
		CreatedAt:   p.CreatedAt,
		LastLoginAt: p.LastLoginAt,
	}
}

type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	Professional ProfessionalResponse `json:"professional"`
}
