package api

import (
	domain "github.com/example/grantmatch/domain/catalog"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/modules/recommend"
	"github.com/gofiber/fiber/v2"
)

// CreateStartup stores a startup profile.
func (h *Handlers) CreateStartup(c *fiber.Ctx) error {
	var in catalog.StartupInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	startup, err := h.catalog.CreateStartup(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(startup)
}

// ListStartups returns one page of startups.
func (h *Handlers) ListStartups(c *fiber.Ctx) error {
	page, perPage := paging(c)
	startups, err := h.catalog.ListStartups(c.UserContext(), page, perPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(startups)
}

// GetStartup returns a startup by ID.
func (h *Handlers) GetStartup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid startup id")
	}
	startup, err := h.catalog.GetStartup(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(startup)
}

// UpdateStartup applies a partial update to a startup.
func (h *Handlers) UpdateStartup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid startup id")
	}
	var in catalog.StartupInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	startup, err := h.catalog.UpdateStartup(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(startup)
}

// DeleteStartup removes a startup.
func (h *Handlers) DeleteStartup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid startup id")
	}
	if err := h.catalog.DeleteStartup(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(MessageResponse{Message: "Startup deleted"})
}

// CreateProgram stores a grant program. Superuser only.
func (h *Handlers) CreateProgram(c *fiber.Ctx) error {
	var in catalog.ProgramInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	program, err := h.catalog.CreateProgram(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(program)
}

// ListPrograms returns one page of grant programs.
func (h *Handlers) ListPrograms(c *fiber.Ctx) error {
	page, perPage := paging(c)
	programs, err := h.catalog.ListPrograms(c.UserContext(), page, perPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(programs)
}

// GetProgram returns a grant program by ID.
func (h *Handlers) GetProgram(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid program id")
	}
	program, err := h.catalog.GetProgram(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(program)
}

// UpdateProgram applies a partial update to a grant program. Superuser only.
func (h *Handlers) UpdateProgram(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid program id")
	}
	var in catalog.ProgramInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	program, err := h.catalog.UpdateProgram(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(program)
}

// DeleteProgram removes a grant program. Superuser only.
func (h *Handlers) DeleteProgram(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid program id")
	}
	if err := h.catalog.DeleteProgram(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(MessageResponse{Message: "Program deleted"})
}

// ListGrants returns one page of parsed grant listings.
func (h *Handlers) ListGrants(c *fiber.Ctx) error {
	page, perPage := paging(c)
	grants, err := h.catalog.ListGrants(c.UserContext(), page, perPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(grants)
}

// GetGrant returns a parsed grant listing by ID.
func (h *Handlers) GetGrant(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid grant id")
	}
	grant, err := h.catalog.GetGrant(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(grant)
}

// CreateGrant ingests a parsed grant listing. Superuser only.
func (h *Handlers) CreateGrant(c *fiber.Ctx) error {
	var grant domain.Grant
	if err := c.BodyParser(&grant); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.catalog.CreateGrant(c.UserContext(), grant)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// CreateQuestions stores a questionnaire for the caller.
func (h *Handlers) CreateQuestions(c *fiber.Ctx) error {
	var in catalog.QuestionsInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	q, err := h.catalog.CreateQuestions(c.UserContext(), userFrom(c).ID, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// ListUserQuestions returns the caller's questionnaires.
func (h *Handlers) ListUserQuestions(c *fiber.Ctx) error {
	qs, err := h.catalog.ListUserQuestions(c.UserContext(), userFrom(c).ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(qs)
}

// GetQuestions returns one of the caller's questionnaires.
func (h *Handlers) GetQuestions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid question id")
	}
	q, err := h.catalog.GetQuestions(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if q.UserID != userFrom(c).ID {
		return respondError(c, h.logger, catalog.ErrNotOwner)
	}
	return c.JSON(q)
}

// UpdateQuestions applies a partial update to one of the caller's
// questionnaires.
func (h *Handlers) UpdateQuestions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid question id")
	}
	var in catalog.QuestionsInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	q, err := h.catalog.UpdateQuestions(c.UserContext(), userFrom(c).ID, id, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(q)
}

// DeleteQuestions removes one of the caller's questionnaires.
func (h *Handlers) DeleteQuestions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid question id")
	}
	if err := h.catalog.DeleteQuestions(c.UserContext(), userFrom(c).ID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(MessageResponse{Message: "Question deleted successfully"})
}

// RecommendForStartup returns the top grant programs for a stored startup.
func (h *Handlers) RecommendForStartup(c *fiber.Ctx) error {
	id, ok := paramID(c, "startup_id")
	if !ok {
		return badRequest(c, "Invalid startup id")
	}
	recs, err := h.recommend.ForStartup(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(recs)
}

// RecommendForDescription ranks every grant program against a free-text
// description.
func (h *Handlers) RecommendForDescription(c *fiber.Ctx) error {
	var req RankRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	programs, err := h.catalog.AllPrograms(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	candidates := make([]recommend.Candidate, len(programs))
	for i, p := range programs {
		candidates[i] = recommend.Candidate{Title: p.Title, URL: p.URL, Description: p.Description}
	}

	recs, err := h.recommend.Rank(c.UserContext(), req.Description, candidates)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"recommended_grants": recs})
}
