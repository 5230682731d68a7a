package service

import (
	"context"

	"trellis/internal/models"
)

// bedRepoStub is a stub for repository.BedRepository.
type bedRepoStub struct {
	listFn        func(context.Context, uint) ([]*models.Bed, error)
	getByIDFn     func(context.Context, uint, uint) (*models.Bed, error)
	getOrCreateFn func(context.Context, string, uint) (uint, error)
	renameFn      func(context.Context, uint, uint, string) error
	deleteFn      func(context.Context, uint, uint) error
}

func (s *bedRepoStub) List(ctx context.Context, ownerID uint) ([]*models.Bed, error) {
	return s.listFn(ctx, ownerID)
}
func (s *bedRepoStub) GetByID(ctx context.Context, id, ownerID uint) (*models.Bed, error) {
	return s.getByIDFn(ctx, id, ownerID)
}
func (s *bedRepoStub) GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error) {
	return s.getOrCreateFn(ctx, name, ownerID)
}
func (s *bedRepoStub) Rename(ctx context.Context, id, ownerID uint, name string) error {
	return s.renameFn(ctx, id, ownerID, name)
}
func (s *bedRepoStub) Delete(ctx context.Context, id, ownerID uint) error {
	return s.deleteFn(ctx, id, ownerID)
}

func noopBedRepo() *bedRepoStub {
	return &bedRepoStub{
		listFn:        func(_ context.Context, _ uint) ([]*models.Bed, error) { return nil, nil },
		getByIDFn:     func(_ context.Context, id, _ uint) (*models.Bed, error) { return &models.Bed{ID: id}, nil },
		getOrCreateFn: func(_ context.Context, _ string, _ uint) (uint, error) { return 1, nil },
		renameFn:      func(_ context.Context, _, _ uint, _ string) error { return nil },
		deleteFn:      func(_ context.Context, _, _ uint) error { return nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	getOrCreateFn func(context.Context, string, uint) (uint, error)
	listByOwnerFn func(context.Context, uint) ([]*models.Tag, error)
}

func (s *tagRepoStub) GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error) {
	return s.getOrCreateFn(ctx, name, ownerID)
}
func (s *tagRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Tag, error) {
	return s.listByOwnerFn(ctx, ownerID)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		getOrCreateFn: func(_ context.Context, _ string, _ uint) (uint, error) { return 1, nil },
		listByOwnerFn: func(_ context.Context, _ uint) ([]*models.Tag, error) { return nil, nil },
	}
}

// entryRepoStub is a stub for repository.EntryRepository.
type entryRepoStub struct {
	listByOwnerFn      func(context.Context, uint) ([]*models.Entry, error)
	getByIDFn          func(context.Context, uint, uint) (*models.Entry, error)
	createFn           func(context.Context, *models.Entry, []uint) error
	updateFn           func(context.Context, *models.Entry, []uint) error
	toggleCompletionFn func(context.Context, uint, uint) (bool, error)
	deleteFn           func(context.Context, uint, uint) error
}

func (s *entryRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Entry, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *entryRepoStub) GetByID(ctx context.Context, id, ownerID uint) (*models.Entry, error) {
	return s.getByIDFn(ctx, id, ownerID)
}
func (s *entryRepoStub) Create(ctx context.Context, entry *models.Entry, tagIDs []uint) error {
	return s.createFn(ctx, entry, tagIDs)
}
func (s *entryRepoStub) Update(ctx context.Context, entry *models.Entry, tagIDs []uint) error {
	return s.updateFn(ctx, entry, tagIDs)
}
func (s *entryRepoStub) ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error) {
	return s.toggleCompletionFn(ctx, id, ownerID)
}
func (s *entryRepoStub) Delete(ctx context.Context, id, ownerID uint) error {
	return s.deleteFn(ctx, id, ownerID)
}

func noopEntryRepo() *entryRepoStub {
	return &entryRepoStub{
		listByOwnerFn:      func(_ context.Context, _ uint) ([]*models.Entry, error) { return nil, nil },
		getByIDFn:          func(_ context.Context, id, owner uint) (*models.Entry, error) { return &models.Entry{ID: id, UserID: owner}, nil },
		createFn:           func(_ context.Context, _ *models.Entry, _ []uint) error { return nil },
		updateFn:           func(_ context.Context, _ *models.Entry, _ []uint) error { return nil },
		toggleCompletionFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:           func(_ context.Context, _, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User, *models.Profile) error
	updatePasswordFn     func(context.Context, uint, string) error
	setPendingEmailFn    func(context.Context, uint, string, string) error
	confirmEmailChangeFn func(context.Context, string) (*models.User, error)
	deleteFn             func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.createFn(ctx, user, profile)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, userID uint, hashed string) error {
	return s.updatePasswordFn(ctx, userID, hashed)
}
func (s *userRepoStub) SetPendingEmail(ctx context.Context, userID uint, email, token string) error {
	return s.setPendingEmailFn(ctx, userID, email, token)
}
func (s *userRepoStub) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	return s.confirmEmailChangeFn(ctx, token)
}
func (s *userRepoStub) Delete(ctx context.Context, userID uint) error {
	return s.deleteFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:             func(_ context.Context, _ *models.User, _ *models.Profile) error { return nil },
		updatePasswordFn:     func(_ context.Context, _ uint, _ string) error { return nil },
		setPendingEmailFn:    func(_ context.Context, _ uint, _, _ string) error { return nil },
		confirmEmailChangeFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn     func(context.Context, uint) (*models.Profile, error)
	updateFn          func(context.Context, *models.Profile) error
	usernameTakenFn   func(context.Context, string, uint) (bool, error)
	updateAvatarURLFn func(context.Context, uint, string) error
	updateEmailFn     func(context.Context, uint, string) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	return s.usernameTakenFn(ctx, username, excludeUserID)
}
func (s *profileRepoStub) UpdateAvatarURL(ctx context.Context, userID uint, url string) error {
	return s.updateAvatarURLFn(ctx, userID, url)
}
func (s *profileRepoStub) UpdateEmail(ctx context.Context, userID uint, email string) error {
	return s.updateEmailFn(ctx, userID, email)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn:     func(_ context.Context, userID uint) (*models.Profile, error) { return &models.Profile{UserID: userID}, nil },
		updateFn:          func(_ context.Context, _ *models.Profile) error { return nil },
		usernameTakenFn:   func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
		updateAvatarURLFn: func(_ context.Context, _ uint, _ string) error { return nil },
		updateEmailFn:     func(_ context.Context, _ uint, _ string) error { return nil },
	}
}
