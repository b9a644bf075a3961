package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

type subtaskRequest struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description"`
	Priority         string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"omitempty,gte=1"`
	OrderIndex       int      `json:"order_index" validate:"omitempty,gte=1"`
	Dependencies     []string `json:"dependencies" validate:"omitempty,dive,uuid"`
}

type allocateTasksRequest struct {
	Subtasks []subtaskRequest `json:"subtasks" validate:"omitempty,dive"`
}

type allocateTasksResponse struct {
	GoalID string         `json:"goal_id"`
	Tasks  []*domain.Task `json:"tasks"`
	Count  int            `json:"count"`
}

type taskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// allocateTasks is the scheduling entry point: one request turns a goal's
// subtask list into a dated study plan.
func (s *Server) allocateTasks(c *fiber.Ctx) error {
	var req allocateTasksRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	specs := make([]domain.SubtaskSpec, 0, len(req.Subtasks))
	for _, sub := range req.Subtasks {
		specs = append(specs, domain.SubtaskSpec{
			Title:            sub.Title,
			Description:      sub.Description,
			Priority:         domain.TaskPriority(sub.Priority),
			EstimatedMinutes: sub.EstimatedMinutes,
			OrderIndex:       sub.OrderIndex,
			Dependencies:     sub.Dependencies,
		})
	}

	tasks, err := s.opts.Allocator.AllocateTasks(c.Context(), c.Params("id"), specs)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(allocateTasksResponse{
		GoalID: c.Params("id"),
		Tasks:  tasks,
		Count:  len(tasks),
	})
}

func (s *Server) updateTaskStatus(c *fiber.Ctx) error {
	var req updateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	task, err := s.opts.Planner.UpdateTaskStatus(c.Context(), c.Params("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.opts.Planner.DeleteTask(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) upcomingTasks(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	if days < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "days must not be negative")
	}

	tasks, err := s.opts.Planner.UpcomingTasks(c.Context(), c.Query("owner_id"), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return c.JSON(taskListResponse{Tasks: tasks, Count: len(tasks)})
}

func (s *Server) overdueTasks(c *fiber.Ctx) error {
	tasks, err := s.opts.Planner.OverdueTasks(c.Context(), c.Query("owner_id"))
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return c.JSON(taskListResponse{Tasks: tasks, Count: len(tasks)})
}
