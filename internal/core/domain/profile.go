package domain

import (
	"time"
)

type LearningStyle string

const (
	LearningStyleVisual      LearningStyle = "visual"
	LearningStyleAuditory    LearningStyle = "auditory"
	LearningStyleReading     LearningStyle = "reading"
	LearningStyleKinesthetic LearningStyle = "kinesthetic"
)

// Valid reports whether s is one of the known learning styles.
func (s LearningStyle) Valid() bool {
	switch s {
	case LearningStyleVisual, LearningStyleAuditory, LearningStyleReading, LearningStyleKinesthetic:
		return true
	}
	return false
}

// StudyProfile holds the attributes used to match a student with study peers.
// List fields are stored lowercased so matching is case-insensitive.
type StudyProfile struct {
	UserID        string        `json:"user_id"`
	Subjects      []string      `json:"subjects"`
	Interests     []string      `json:"interests"`
	Availability  []string      `json:"availability"` // free-form slots, e.g. "mon-evening"
	LearningStyle LearningStyle `json:"learning_style,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PeerMatch is one candidate study partner with its compatibility score and
// the overlaps that produced it.
type PeerMatch struct {
	Profile            StudyProfile `json:"profile"`
	Score              float64      `json:"score"`
	SharedSubjects     []string     `json:"shared_subjects,omitempty"`
	SharedAvailability []string     `json:"shared_availability,omitempty"`
	SharedInterests    []string     `json:"shared_interests,omitempty"`
	SameLearningStyle  bool         `json:"same_learning_style"`
}
