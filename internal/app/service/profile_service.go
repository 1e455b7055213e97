package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

var (
	ErrProfileNotFound = repository.ErrProfileNotFound
	// ErrProfileStoreUnavailable is returned by profile reads and edits when no database is configured.
	ErrProfileStoreUnavailable = errors.New("profile store unavailable")
)

type ProfileService interface {
	// EnsureProfile creates the profile on first sight of a user. Failures are logged, never returned.
	EnsureProfile(ctx context.Context, identity model.Identity)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, identity model.Identity, edit model.ProfileEdit) (*model.Profile, error)
	EnrichReviews(ctx context.Context, reviews []model.Review)
	EnrichComments(ctx context.Context, comments []model.Comment)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	timeout     time.Duration
}

// NewProfileService accepts a nil repository; enrichment then keeps the names already on the records.
// timeout bounds the best-effort calls (first-sight creation and display-name lookups); zero means
// repository.DefaultPrimaryTimeout.
func NewProfileService(profileRepo repository.ProfileRepository, timeout time.Duration) ProfileService {
	return &profileService{profileRepo: profileRepo, timeout: bestEffortTimeout(timeout)}
}

func bestEffortTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return repository.DefaultPrimaryTimeout
	}
	return timeout
}

func (s *profileService) EnsureProfile(ctx context.Context, identity model.Identity) {
	if s.profileRepo == nil || identity.ID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.profileRepo.EnsureExists(ctx, model.NewProfileFromIdentity(identity)); err != nil {
		logger.Warn("Failed to ensure profile", map[string]interface{}{
			"user_id": identity.ID,
			"error":   err.Error(),
		})
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if s.profileRepo == nil {
		return nil, ErrProfileStoreUnavailable
	}
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) SaveProfile(ctx context.Context, identity model.Identity, edit model.ProfileEdit) (*model.Profile, error) {
	if s.profileRepo == nil {
		return nil, ErrProfileStoreUnavailable
	}
	if identity.ID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateProfileEdit(edit); err != nil {
		return nil, err
	}

	current, err := s.profileRepo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = model.NewProfileFromIdentity(identity)
	}
	edit.ApplyTo(current)

	saved, err := s.profileRepo.Save(ctx, current)
	if err != nil {
		logger.Error("Failed to save profile", err, map[string]interface{}{
			"user_id": identity.ID,
		})
		return nil, err
	}

	logger.Info("Profile saved", map[string]interface{}{
		"user_id": saved.ID,
	})
	return saved, nil
}

func validateProfileEdit(edit model.ProfileEdit) error {
	if edit.FullName != nil && runeLen(*edit.FullName) > maxProfileNameLength {
		return newValidationError("fullName", "이름이 너무 깁니다")
	}
	if edit.Username != nil && runeLen(*edit.Username) > maxProfileNameLength {
		return newValidationError("username", "사용자 이름이 너무 깁니다")
	}
	if edit.Bio != nil && runeLen(*edit.Bio) > maxBioLength {
		return newValidationError("bio", "소개가 너무 깁니다")
	}
	if edit.Email != nil {
		if email := strings.TrimSpace(*edit.Email); email != "" && !strings.Contains(email, "@") {
			return newValidationError("email", "이메일 형식이 올바르지 않습니다")
		}
	}
	return nil
}

// lookup returns the profiles for ids, or an empty map when the lookup is unavailable.
func (s *profileService) lookup(ctx context.Context, ids []string) map[string]*model.Profile {
	if s.profileRepo == nil || len(ids) == 0 {
		return map[string]*model.Profile{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	profiles, err := s.profileRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Warn("Profile lookup failed, using fallback display names", map[string]interface{}{
			"count": len(ids),
			"error": err.Error(),
		})
		return map[string]*model.Profile{}
	}
	return profiles
}

// EnrichReviews resolves user_name as profile full_name, then username, then the stored hint,
// then the anonymous placeholder.
func (s *profileService) EnrichReviews(ctx context.Context, reviews []model.Review) {
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	profiles := s.lookup(ctx, uniqueStrings(ids))

	for i := range reviews {
		reviews[i].UserName, reviews[i].UserAvatar = resolveDisplay(profiles[reviews[i].UserID], reviews[i].UserName, reviews[i].UserAvatar)
	}
}

func (s *profileService) EnrichComments(ctx context.Context, comments []model.Comment) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	profiles := s.lookup(ctx, uniqueStrings(ids))

	for i := range comments {
		comments[i].UserName, comments[i].UserAvatar = resolveDisplay(profiles[comments[i].UserID], comments[i].UserName, comments[i].UserAvatar)
	}
}

func resolveDisplay(profile *model.Profile, nameHint, avatarHint string) (string, string) {
	name := strings.TrimSpace(nameHint)
	if profile.HasName() {
		name = profile.DisplayName()
	}
	if name == "" {
		name = model.AnonymousDisplayName
	}

	avatar := avatarHint
	if profile != nil && profile.AvatarURL != "" {
		avatar = profile.AvatarURL
	}
	return name, avatar
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
