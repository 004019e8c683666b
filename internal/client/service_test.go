package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agendafacil-backend/internal/client"
)

type fakeRepo struct {
	byEmail map[string]*client.Client
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*client.Client{}}
}

func (r *fakeRepo) Upsert(ctx context.Context, c *client.Client) error {
	if existing, ok := r.byEmail[c.Email]; ok {
		c.ID = existing.ID
		existing.Name = c.Name
		if c.Phone != nil {
			existing.Phone = c.Phone
		} else {
			c.Phone = existing.Phone
		}
		return nil
	}
	r.seq++
	c.ID = "client-1"
	clone := *c
	r.byEmail[c.Email] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*client.Client, error) {
	for _, c := range r.byEmail {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, client.ErrNotFound
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	c, ok := r.byEmail[email]
	if !ok {
		return nil, client.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func TestUpsertNormalizesEmail(t *testing.T) {
	svc := client.NewService(newFakeRepo())

	c, err := svc.Upsert(context.Background(), client.UpsertRequest{
		Email: "  Joao@Example.COM ",
		Name:  "João Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", c.Email)
}

func TestUpsertValidation(t *testing.T) {
	svc := client.NewService(newFakeRepo())

	_, err := svc.Upsert(context.Background(), client.UpsertRequest{Email: "", Name: "João"})
	assert.ErrorIs(t, err, client.ErrEmailRequired)

	_, err = svc.Upsert(context.Background(), client.UpsertRequest{Email: "not-an-email", Name: "João"})
	assert.ErrorIs(t, err, client.ErrInvalidEmail)

	_, err = svc.Upsert(context.Background(), client.UpsertRequest{Email: "joao@example.com", Name: "  "})
	assert.ErrorIs(t, err, client.ErrNameRequired)
}

func TestUpsertKeepsPhoneWhenOmitted(t *testing.T) {
	repo := newFakeRepo()
	svc := client.NewService(repo)

	phone := "11912345678"
	first, err := svc.Upsert(context.Background(), client.UpsertRequest{
		Email: "joao@example.com",
		Name:  "João",
		Phone: &phone,
	})
	require.NoError(t, err)

	// Second upsert without a phone must not clear the stored one
	second, err := svc.Upsert(context.Background(), client.UpsertRequest{
		Email: "joao@example.com",
		Name:  "João Silva",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "João Silva", second.Name)
	require.NotNil(t, second.Phone)
	assert.Equal(t, phone, *second.Phone)
}

func TestGetByEmailNormalizes(t *testing.T) {
	repo := newFakeRepo()
	svc := client.NewService(repo)

	_, err := svc.Upsert(context.Background(), client.UpsertRequest{
		Email: "joao@example.com",
		Name:  "João",
	})
	require.NoError(t, err)

	c, err := svc.GetByEmail(context.Background(), " JOAO@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", c.Email)
}
