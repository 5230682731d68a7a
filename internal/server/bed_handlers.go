package server

import (
	"trellis/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetBeds handles GET /api/beds
// @Summary List beds
// @Tags beds
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Bed
// @Router /beds [get]
func (s *Server) GetBeds(c *fiber.Ctx) error {
	beds, err := s.bedService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	if beds == nil {
		beds = []*models.Bed{}
	}
	return c.JSON(beds)
}

// CreateBed handles POST /api/beds
// @Summary Create a bed (or return the existing one with the same name)
// @Tags beds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string} true "Bed name"
// @Success 201 {object} object{id=integer}
// @Failure 400 {object} models.ErrorResponse
// @Router /beds [post]
func (s *Server) CreateBed(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	id, err := s.bedService.GetOrCreate(c.UserContext(), req.Name, currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

// RenameBed handles PUT /api/beds/:id
// @Summary Rename a bed
// @Tags beds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bed ID"
// @Param request body object{name=string} true "New bed name"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /beds/{id} [put]
func (s *Server) RenameBed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.bedService.Rename(c.UserContext(), id, currentUserID(c), req.Name); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Bed renamed",
	})
}

// DeleteBed handles DELETE /api/beds/:id
// @Summary Delete a bed; its entries are kept and unassigned
// @Tags beds
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bed ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /beds/{id} [delete]
func (s *Server) DeleteBed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bedService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Bed deleted",
	})
}

// GetTags handles GET /api/tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagRepo.ListByOwner(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	return c.JSON(tags)
}
