package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/response"
	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
)

type Handler struct {
	service servicetype.Service
}

func NewHandler(service servicetype.Service) *Handler {
	return &Handler{service: service}
}

// getOwned fetches the service type and checks it belongs to the caller.
func (h *Handler) getOwned(c *gin.Context, id string) (*servicetype.ServiceType, bool) {
	st, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if st.ProfessionalID != auth.GetProfessionalID(c) {
		response.Error(c, servicetype.ErrNotFound)
		return nil, false
	}
	return st, true
}

// ListPublic lists a professional's active service types without
// authentication. Patients drive the booking flow from this listing.
func (h *Handler) ListPublic(c *gin.Context) {
	var req PublicListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := servicetype.Filter{
		ProfessionalID: req.ProfessionalID,
		ActiveOnly:     true,
	}

	sts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceTypeResponse, len(sts))
	for i, st := range sts {
		items[i] = NewResponse(st)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) List(c *gin.Context) {
	var req ListServiceTypesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := servicetype.Filter{
		ProfessionalID: auth.GetProfessionalID(c),
		ActiveOnly:     req.ActiveOnly,
	}

	sts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceTypeResponse, len(sts))
	for i, st := range sts {
		items[i] = NewResponse(st)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := servicetype.CreateRequest{
		ProfessionalID:  auth.GetProfessionalID(c),
		Name:            body.Name,
		DurationMinutes: body.DurationMinutes,
		Description:     body.Description,
		IsActive:        body.IsActive,
	}

	st, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(st))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	st, ok := h.getOwned(c, req.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, NewResponse(st))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if _, ok := h.getOwned(c, uri.ID); !ok {
		return
	}

	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := servicetype.UpdateRequest{
		Name:            body.Name,
		DurationMinutes: body.DurationMinutes,
		Description:     body.Description,
		IsActive:        body.IsActive,
	}

	st, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(st))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if _, ok := h.getOwned(c, req.ID); !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
