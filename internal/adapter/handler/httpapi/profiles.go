package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

type profileRequest struct {
	Subjects      []string `json:"subjects" validate:"omitempty,max=50,dive,max=100"`
	Interests     []string `json:"interests" validate:"omitempty,max=50,dive,max=100"`
	Availability  []string `json:"availability" validate:"omitempty,max=50,dive,max=100"`
	LearningStyle string   `json:"learning_style" validate:"omitempty,oneof=visual auditory reading kinesthetic"`
}

type matchListResponse struct {
	Matches []*domain.PeerMatch `json:"matches"`
	Count   int                 `json:"count"`
}

func (s *Server) upsertProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	profile, err := s.opts.Matcher.UpsertProfile(c.Context(), &domain.StudyProfile{
		UserID:        c.Params("userID"),
		Subjects:      req.Subjects,
		Interests:     req.Interests,
		Availability:  req.Availability,
		LearningStyle: domain.LearningStyle(req.LearningStyle),
	})
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	profile, err := s.opts.Matcher.GetProfile(c.Context(), c.Params("userID"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (s *Server) peerMatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must not be negative")
	}

	matches, err := s.opts.Matcher.TopMatches(c.Context(), c.Params("userID"), limit)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []*domain.PeerMatch{}
	}
	return c.JSON(matchListResponse{Matches: matches, Count: len(matches)})
}
