package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	pgdb "github.com/ibrahimmurtaza/neurolearn-scheduler/config/storage/postgresql"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

var profileColumns = []string{"user_id", "subjects", "interests", "availability", "learning_style", "updated_at"}

type profileRepository struct {
	db  *pgdb.DB
	log *zap.Logger
}

// NewProfileRepository creates a new postgres study profile repository
func NewProfileRepository(db *pgdb.DB, log *zap.Logger) port.ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log,
	}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.StudyProfile) error {
	query, args, err := r.db.QueryBuilder.
		Insert("study_profiles").
		Columns(profileColumns...).
		Values(profile.UserID, emptyIfNil(profile.Subjects), emptyIfNil(profile.Interests),
			emptyIfNil(profile.Availability), profile.LearningStyle, profile.UpdatedAt).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			subjects = EXCLUDED.subjects,
			interests = EXCLUDED.interests,
			availability = EXCLUDED.availability,
			learning_style = EXCLUDED.learning_style,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to upsert study profile", zap.String("user_id", profile.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *profileRepository) GetByUser(ctx context.Context, userID string) (*domain.StudyProfile, error) {
	query, args, err := r.db.QueryBuilder.
		Select(profileColumns...).
		From("study_profiles").
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, err
	}

	var profile domain.StudyProfile
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&profile.UserID, &profile.Subjects, &profile.Interests,
		&profile.Availability, &profile.LearningStyle, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListAll(ctx context.Context) ([]*domain.StudyProfile, error) {
	query, args, err := r.db.QueryBuilder.
		Select(profileColumns...).
		From("study_profiles").
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.StudyProfile
	for rows.Next() {
		var profile domain.StudyProfile
		if err := rows.Scan(&profile.UserID, &profile.Subjects, &profile.Interests,
			&profile.Availability, &profile.LearningStyle, &profile.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

func emptyIfNil(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}
