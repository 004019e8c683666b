package http

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
)

// ListServiceTypesRequest defines query parameters for listing service types.
type ListServiceTypesRequest struct {
	ActiveOnly bool `form:"active_only"`
}

// PublicListRequest defines query parameters for the unauthenticated listing.
type PublicListRequest struct {
	ProfessionalID string `form:"professional_id" binding:"required,uuid"`
}

type ServiceTypeResponse struct {
	ID              string    `json:"id"`
	ProfessionalID  string    `json:"professional_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     *string   `json:"description"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewResponse(st *servicetype.ServiceType) ServiceTypeResponse {
	return ServiceTypeResponse{
		ID:              st.ID,
		ProfessionalID:  st.ProfessionalID,
		Name:            st.Name,
		DurationMinutes: st.DurationMinutes,
		Description:     st.Description,
		IsActive:        st.IsActive,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
	}
}

type CreateRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=100"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"is_active"`
}

type UpdateRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"is_active"`
}
