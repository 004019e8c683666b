package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/response"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
)

type Handler struct {
	service    professional.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service professional.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register creates a professional account if the email is unique.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(p))
}

// Login authenticates with email and password and returns a JWT access
// token along with the profile.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, professional.ErrInvalidCredentials),
			errors.Is(err, professional.ErrNotFound),
			errors.Is(err, professional.ErrInactive):
			// Do not reveal which condition failed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			response.Error(c, err)
		}
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(p.ID, p.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  token,
		Professional: NewResponse(p),
	})
}

// Me returns the authenticated professional's profile.
func (h *Handler) Me(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), auth.GetProfessionalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), auth.GetProfessionalID(c), professional.UpdateProfileRequest{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}

// UploadAvatar replaces the professional's avatar image.
func (h *Handler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	p, err := h.service.UploadAvatar(c.Request.Context(), auth.GetProfessionalID(c), header)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}

// DownloadAvatar streams the avatar thumbnail. It is public so booking
// pages can show the professional's picture.
func (h *Handler) DownloadAvatar(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rc, err := h.service.DownloadAvatar(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
