package professional_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
)

type fakeRepo struct {
	byEmail map[string]*professional.Professional
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*professional.Professional{}}
}

func (r *fakeRepo) Create(ctx context.Context, p *professional.Professional) error {
	if _, ok := r.byEmail[p.Email]; ok {
		return professional.ErrEmailAlreadyUsed
	}
	r.seq++
	p.ID = "pro-1"
	p.CreatedAt = time.Now()
	clone := *p
	r.byEmail[p.Email] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*professional.Professional, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, professional.ErrNotFound
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*professional.Professional, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, professional.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepo) UpdateProfile(ctx context.Context, p *professional.Professional) error {
	stored, ok := r.byEmail[p.Email]
	if !ok {
		return professional.ErrNotFound
	}
	*stored = *p
	return nil
}

func (r *fakeRepo) UpdateAvatar(ctx context.Context, id string, avatarPath, thumbnailPath *string) error {
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	for _, p := range r.byEmail {
		if p.ID == id {
			ts := t
			p.LastLoginAt = &ts
			return nil
		}
	}
	return professional.ErrNotFound
}

func newService(repo professional.Repository) professional.Service {
	return professional.NewService(repo, auth.NewBcryptPasswordHasherWithCost(4), nil)
}

func TestRegister(t *testing.T) {
	svc := newService(newFakeRepo())

	p, err := svc.Register(context.Background(), " Ana@Example.COM ", "s3cret-pass", "Dra. Ana")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", p.Email)
	require.NotNil(t, p.DisplayName)
	assert.Equal(t, "Dra. Ana", *p.DisplayName)
	assert.NotEqual(t, "s3cret-pass", p.PasswordHash, "password must be stored hashed")
	assert.True(t, p.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ana@example.com", "other-pass", "")
	assert.ErrorIs(t, err, professional.ErrEmailAlreadyUsed)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "ana@example.com", "short", "")
	assert.ErrorIs(t, err, professional.ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cret-pass", "Dra. Ana")
	require.NoError(t, err)

	p, err := svc.Login(context.Background(), "ana@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)

	stored, err := repo.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt, "login records the timestamp")
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, professional.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, professional.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cret-pass", "")
	require.NoError(t, err)
	repo.byEmail["ana@example.com"].IsActive = false

	_, err = svc.Login(context.Background(), "ana@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, professional.ErrInactive)
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(newFakeRepo())

	p, err := svc.Register(context.Background(), "ana@example.com", "s3cret-pass", "Ana")
	require.NoError(t, err)

	name := "Dra. Ana Souza"
	phone := "(11) 98888-7777"
	updated, err := svc.UpdateProfile(context.Background(), p.ID, professional.UpdateProfileRequest{
		DisplayName: &name,
		Phone:       &phone,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Dra. Ana Souza", *updated.DisplayName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "(11) 98888-7777", *updated.Phone)
}
