package server

import (
	"trellis/internal/models"
	"trellis/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetEntries handles GET /api/entries
// @Summary List journal entries
// @Description Newest first; filterable by type (all|notes|next7), tag substring, and bed name
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param type query string false "all, notes, or next7"
// @Param tag query string false "Case-insensitive tag substring"
// @Param bed query string false "Exact bed name, or 'No bed assigned'"
// @Success 200 {array} service.EntryView
// @Router /entries [get]
func (s *Server) GetEntries(c *fiber.Ctx) error {
	filter := service.ListFilter{
		Type:     c.Query("type"),
		TagQuery: c.Query("tag"),
		Bed:      c.Query("bed"),
	}

	entries, err := s.entryService.List(c.UserContext(), currentUserID(c), filter)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(entries)
}

// GetEntry handles GET /api/entries/:id
// @Summary Get a single entry
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} service.EntryView
// @Failure 404 {object} models.ErrorResponse
// @Router /entries/{id} [get]
func (s *Server) GetEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	entry, err := s.entryService.Get(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(entry)
}

// CreateEntry handles POST /api/entries
// @Summary Create a journal entry
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.EntryInput true "Entry fields"
// @Success 201 {object} service.EntryView
// @Failure 400 {object} models.ErrorResponse
// @Router /entries [post]
func (s *Server) CreateEntry(c *fiber.Ctx) error {
	var req service.EntryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateEntry handles PUT /api/entries/:id
// @Summary Update a journal entry
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body service.EntryInput true "Entry fields"
// @Success 200 {object} service.EntryView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /entries/{id} [put]
func (s *Server) UpdateEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.EntryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.Update(c.UserContext(), id, currentUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(entry)
}

// ToggleEntry handles PATCH /api/entries/:id/toggle
// @Summary Toggle a to-do's completion
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} object{completed=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /entries/{id}/toggle [patch]
func (s *Server) ToggleEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	completed, err := s.entryService.ToggleCompletion(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"completed": completed,
	})
}

// DeleteEntry handles DELETE /api/entries/:id
// @Summary Delete a journal entry
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /entries/{id} [delete]
func (s *Server) DeleteEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.entryService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Entry deleted",
	})
}
