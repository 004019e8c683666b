package professional

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/client"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/storage"
)

type UpdateProfileRequest struct {
	DisplayName *string
	Phone       *string
}

// Service defines business logic related to professional accounts.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*Professional, error)
	Login(ctx context.Context, email, password string) (*Professional, error)
	GetByID(ctx context.Context, id string) (*Professional, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Professional, error)
	UploadAvatar(ctx context.Context, id string, header *multipart.FileHeader) (*Professional, error)
	DownloadAvatar(ctx context.Context, id string) (io.ReadCloser, error)
}

type service struct {
	repo    Repository
	hasher  auth.PasswordHasher
	storage storage.Storage
	imgProc *storage.ImageProcessor

	minPasswordLength int
}

// NewService creates a new professional Service.
func NewService(repo Repository, hasher auth.PasswordHasher, store storage.Storage) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		storage:           store,
		imgProc:           storage.NewImageProcessor(),
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*Professional, error) {
	cleanEmail := client.NormalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}
	if !client.IsValidEmail(cleanEmail) {
		return nil, ErrEmailRequired
	}

	if len(password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayNamePtr *string
	if d := strings.TrimSpace(displayName); d != "" {
		displayNamePtr = &d
	}

	p := &Professional{
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Professional, error) {
	cleanEmail := client.NormalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch professional by email: %w", err)
	}

	if !p.IsActive {
		return nil, ErrInactive
	}

	if err := s.hasher.Compare(p.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	_ = s.repo.UpdateLastLogin(ctx, p.ID, now)

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if d := strings.TrimSpace(*req.DisplayName); d != "" {
			p.DisplayName = &d
		} else {
			p.DisplayName = nil
		}
	}
	if req.Phone != nil {
		if ph := strings.TrimSpace(*req.Phone); ph != "" {
			p.Phone = &ph
		} else {
			p.Phone = nil
		}
	}

	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UploadAvatar(ctx context.Context, id string, header *multipart.FileHeader) (*Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content so it can be both stored and thumbnailed.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	avatarPath := fmt.Sprintf("avatars/%s/%s%s", p.ID, fileID, ext)

	if err := s.storage.Save(ctx, avatarPath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save avatar to storage: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
	if err == nil {
		tPath := fmt.Sprintf("avatars/%s/%s_thumb.jpg", p.ID, fileID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
			thumbnailPath = &tPath
		}
	}

	oldAvatar, oldThumbnail := p.AvatarPath, p.AvatarThumbnailPath

	if err := s.repo.UpdateAvatar(ctx, p.ID, &avatarPath, thumbnailPath); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, avatarPath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	// Best effort cleanup of the replaced files.
	if oldAvatar != nil {
		_ = s.storage.Delete(ctx, *oldAvatar)
	}
	if oldThumbnail != nil {
		_ = s.storage.Delete(ctx, *oldThumbnail)
	}

	p.AvatarPath = &avatarPath
	p.AvatarThumbnailPath = thumbnailPath
	return p, nil
}

func (s *service) DownloadAvatar(ctx context.Context, id string) (io.ReadCloser, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AvatarPath == nil {
		return nil, ErrNoAvatar
	}

	// Prefer the thumbnail: it is always JPEG and small enough for lists.
	path := *p.AvatarPath
	if p.AvatarThumbnailPath != nil {
		path = *p.AvatarThumbnailPath
	}

	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve avatar from storage: %w", err)
	}
	return stream, nil
}
