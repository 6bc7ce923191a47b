package stubapi

import (
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type jobHandler struct {
	s *Server
}

func newJobHandler(s *Server) *jobHandler {
	return &jobHandler{s: s}
}

func (h *jobHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/job_requirements", h.Create)
}

func (h *jobHandler) Create(ctx *fiber.Ctx) error {
	var req dto.CreateJobRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}
	if req.UserID == "" {
		return fail(ctx, fiber.StatusBadRequest, "User ID, job description, and skills are required")
	}

	j := jobRecord{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Title:       req.JobTitle,
		Description: req.JobDescription,
		Department:  req.Department,
		Skills:      req.Skills,
		Experience:  req.ExperienceRequired,
		Location:    req.Location,
		JobType:     req.JobType,
	}
	h.s.db.saveJob(j)
	h.s.db.notify(req.UserID, "Job Created", "Job requirements for "+req.JobTitle+" were saved.", string(entity.NotificationInfo))

	return ctx.Status(fiber.StatusCreated).JSON(dto.CreateJobResponse{Message: "Job requirements saved", JobID: j.ID})
}
