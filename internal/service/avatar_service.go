package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trellis/internal/models"
	"trellis/internal/repository"
)

// MaxAvatarSizeBytes caps avatar uploads at 5 MB.
const MaxAvatarSizeBytes = 5 << 20

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AvatarService stores avatar images and records their public URL.
type AvatarService interface {
	Upload(ctx context.Context, userID uint, filename string, size int64, r io.Reader) (string, error)
}

type avatarService struct {
	profiles repository.ProfileRepository
	dir      string
	baseURL  string
}

// NewAvatarService creates a new avatar service storing files under dir.
// baseURL is prepended to the returned public path and may be empty.
func NewAvatarService(profiles repository.ProfileRepository, dir, baseURL string) AvatarService {
	return &avatarService{profiles: profiles, dir: dir, baseURL: baseURL}
}

// Upload writes the avatar to disk keyed by user ID, so a re-upload
// overwrites the previous file instead of accumulating orphans.
func (s *avatarService) Upload(ctx context.Context, userID uint, filename string, size int64, r io.Reader) (string, error) {
	if size <= 0 {
		return "", models.NewValidationError("avatar file is empty")
	}
	if size > MaxAvatarSizeBytes {
		return "", models.NewValidationError("avatar must be 5MB or smaller")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedAvatarExts[ext] {
		return "", models.NewValidationError("avatar must be a jpg, png, gif or webp image")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	key := fmt.Sprintf("%d%s", userID, ext)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, io.LimitReader(r, MaxAvatarSizeBytes+1)); err != nil {
		return "", models.NewInternalError(err)
	}

	// A previous upload with a different extension would otherwise shadow
	// the new file behind a stale URL.
	for old := range allowedAvatarExts {
		if old == ext {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, fmt.Sprintf("%d%s", userID, old)))
	}

	url := s.baseURL + "/media/avatars/" + key
	if err := s.profiles.UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
