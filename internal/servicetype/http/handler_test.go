package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
)

const ownerID = "11111111-1111-1111-1111-111111111111"

type fakeService struct {
	items      []*servicetype.ServiceType
	lastFilter servicetype.Filter
}

func (f *fakeService) Create(ctx context.Context, req servicetype.CreateRequest) (*servicetype.ServiceType, error) {
	return nil, servicetype.ErrNotFound
}

func (f *fakeService) GetByID(ctx context.Context, id string) (*servicetype.ServiceType, error) {
	for _, st := range f.items {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, servicetype.ErrNotFound
}

func (f *fakeService) List(ctx context.Context, filter servicetype.Filter) ([]*servicetype.ServiceType, error) {
	f.lastFilter = filter
	var out []*servicetype.ServiceType
	for _, st := range f.items {
		if st.ProfessionalID != filter.ProfessionalID {
			continue
		}
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeService) Update(ctx context.Context, id string, req servicetype.UpdateRequest) (*servicetype.ServiceType, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	return nil
}

func newServiceType(id, name string, active bool) *servicetype.ServiceType {
	return &servicetype.ServiceType{
		ID:              id,
		ProfessionalID:  ownerID,
		Name:            name,
		DurationMinutes: 30,
		IsActive:        active,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func newTestRouter(svc servicetype.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1")
	auth := func(c *gin.Context) {
		c.Set("professionalID", ownerID)
		c.Next()
	}
	RegisterRoutes(v1, NewHandler(svc), auth)
	return r
}

type listBody struct {
	Items []ServiceTypeResponse `json:"items"`
}

func TestListPublicReturnsActiveOnly(t *testing.T) {
	svc := &fakeService{items: []*servicetype.ServiceType{
		newServiceType("22222222-2222-2222-2222-222222222222", "Consulta", true),
		newServiceType("33333333-3333-3333-3333-333333333333", "Retorno", false),
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/service-types?professional_id="+ownerID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Consulta", body.Items[0].Name)
	assert.True(t, svc.lastFilter.ActiveOnly, "public listing must never expose inactive types")
	assert.Equal(t, ownerID, svc.lastFilter.ProfessionalID)
}

func TestListPublicRequiresProfessionalID(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/service-types", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOwnIncludesInactive(t *testing.T) {
	svc := &fakeService{items: []*servicetype.ServiceType{
		newServiceType("22222222-2222-2222-2222-222222222222", "Consulta", true),
		newServiceType("33333333-3333-3333-3333-333333333333", "Retorno", false),
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/service-types/me", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
	assert.False(t, svc.lastFilter.ActiveOnly)
}
