package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

// Compatibility weights. Shared subjects dominate, a shared learning style is
// only a small bonus.
const (
	weightSubjects      = 2.0
	weightAvailability  = 1.5
	weightInterests     = 1.0
	weightLearningStyle = 0.5
)

const defaultMatchLimit = 10

// MatcherService ranks study peers by profile compatibility.
type MatcherService struct {
	profiles port.ProfileRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewMatcherService(profiles port.ProfileRepository, log *zap.Logger) *MatcherService {
	return &MatcherService{
		profiles: profiles,
		log:      log,
		now:      time.Now,
	}
}

// UpsertProfile normalizes and stores a study profile. List entries are
// lowercased and deduplicated so matching stays case-insensitive.
func (s *MatcherService) UpsertProfile(ctx context.Context, profile *domain.StudyProfile) (*domain.StudyProfile, error) {
	if profile.UserID == "" {
		return nil, domain.NewValidationError("user_id", "must not be empty")
	}
	if profile.LearningStyle != "" && !profile.LearningStyle.Valid() {
		return nil, domain.NewValidationError("learning_style", "must be visual, auditory, reading or kinesthetic")
	}

	profile.Subjects = normalizeTerms(profile.Subjects)
	profile.Interests = normalizeTerms(profile.Interests)
	profile.Availability = normalizeTerms(profile.Availability)
	profile.UpdatedAt = s.now().UTC()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info("Stored study profile",
		zap.String("user_id", profile.UserID),
		zap.Int("subjects", len(profile.Subjects)))

	return profile, nil
}

func (s *MatcherService) GetProfile(ctx context.Context, userID string) (*domain.StudyProfile, error) {
	return s.profiles.GetByUser(ctx, userID)
}

// TopMatches scores every other stored profile against the user's and returns
// the best ones, highest score first. Ties break on user id so the ranking is
// stable.
func (s *MatcherService) TopMatches(ctx context.Context, userID string, limit int) ([]*domain.PeerMatch, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	own, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.PeerMatch
	for _, other := range all {
		if other.UserID == own.UserID {
			continue
		}
		candidates = append(candidates, scorePair(own, other))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Profile.UserID < candidates[j].Profile.UserID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.log.Debug("Ranked peer matches",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}

// scorePair computes the weighted compatibility of two profiles.
func scorePair(own, other *domain.StudyProfile) *domain.PeerMatch {
	match := &domain.PeerMatch{
		Profile:            *other,
		SharedSubjects:     intersectTerms(own.Subjects, other.Subjects),
		SharedAvailability: intersectTerms(own.Availability, other.Availability),
		SharedInterests:    intersectTerms(own.Interests, other.Interests),
	}

	match.Score = weightSubjects*float64(len(match.SharedSubjects)) +
		weightAvailability*float64(len(match.SharedAvailability)) +
		weightInterests*float64(len(match.SharedInterests))

	if own.LearningStyle != "" && own.LearningStyle == other.LearningStyle {
		match.SameLearningStyle = true
		match.Score += weightLearningStyle
	}

	return match
}

// normalizeTerms lowercases, trims and deduplicates, keeping first-seen order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// intersectTerms returns the case-insensitive intersection, sorted for
// deterministic output.
func intersectTerms(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, term := range normalizeTerms(a) {
		set[term] = struct{}{}
	}

	var out []string
	for _, term := range normalizeTerms(b) {
		if _, ok := set[term]; ok {
			out = append(out, term)
			delete(set, term)
		}
	}
	sort.Strings(out)
	return out
}
