package http

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/client"
)

type UpsertRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  string  `json:"name" binding:"required,min=1,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=30"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(cl *client.Client) ClientResponse {
	return ClientResponse{
		ID:        cl.ID,
		Email:     cl.Email,
		Name:      cl.Name,
		Phone:     cl.Phone,
		CreatedAt: cl.CreatedAt,
	}
}
