package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"
)

type createGoalRequest struct {
	OwnerID     string    `json:"owner_id" validate:"required,uuid"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

type goalListResponse struct {
	Goals []*domain.Goal `json:"goals"`
	Count int            `json:"count"`
}

func (s *Server) createGoal(c *fiber.Ctx) error {
	var req createGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	goal, err := s.opts.Goals.CreateGoal(c.Context(), service.NewGoal{
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (s *Server) listGoals(c *fiber.Ctx) error {
	goals, err := s.opts.Goals.ListGoals(c.Context(), c.Query("owner_id"))
	if err != nil {
		return err
	}
	if goals == nil {
		goals = []*domain.Goal{}
	}
	return c.JSON(goalListResponse{Goals: goals, Count: len(goals)})
}

func (s *Server) getGoal(c *fiber.Ctx) error {
	goal, err := s.opts.Goals.GetGoal(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(goal)
}

func (s *Server) deleteGoal(c *fiber.Ctx) error {
	if err := s.opts.Goals.DeleteGoal(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) goalProgress(c *fiber.Ctx) error {
	progress, err := s.opts.Planner.GoalProgress(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

func (s *Server) listGoalTasks(c *fiber.Ctx) error {
	tasks, err := s.opts.Planner.TasksForGoal(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return c.JSON(taskListResponse{Tasks: tasks, Count: len(tasks)})
}
