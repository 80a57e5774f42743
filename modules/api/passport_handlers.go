package api

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/example/grantmatch/modules/passport"
	"github.com/gofiber/fiber/v2"
)

// maxPageSize bounds a single uploaded page photo.
const maxPageSize = 10 << 20

// RecognizePassport reads the uploaded page photos, recognizes and validates
// them, and returns the unsaved draft for the caller to review.
func (h *Handlers) RecognizePassport(c *fiber.Ctx) error {
	mainHeader, err := c.FormFile("main_page")
	if err != nil {
		return badRequest(c, "main_page file is required")
	}
	mainPage, err := readImage(mainHeader)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var registrationPage *passport.Image
	if regHeader, err := c.FormFile("registration_page"); err == nil {
		img, err := readImage(regHeader)
		if err != nil {
			return badRequest(c, err.Error())
		}
		registrationPage = &img
	}

	draft, err := h.scanner.Scan(c.UserContext(), mainPage, registrationPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(draft)
}

// CreatePassport stores the caller's passport.
func (h *Handlers) CreatePassport(c *fiber.Ctx) error {
	var in passport.Input
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	p, err := h.passports.Create(c.UserContext(), userFrom(c).ID, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetPassport returns the caller's passport.
func (h *Handlers) GetPassport(c *fiber.Ctx) error {
	p, err := h.passports.Get(c.UserContext(), userFrom(c).ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(p)
}

// UpdatePassport applies a partial update to the caller's passport.
func (h *Handlers) UpdatePassport(c *fiber.Ctx) error {
	var in passport.Input
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	p, err := h.passports.Update(c.UserContext(), userFrom(c).ID, in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(p)
}

func readImage(header *multipart.FileHeader) (passport.Image, error) {
	if header.Size > maxPageSize {
		return passport.Image{}, fmt.Errorf("%s exceeds %d MB", header.Filename, maxPageSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return passport.Image{}, fmt.Errorf("failed to open %s", header.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPageSize))
	if err != nil {
		return passport.Image{}, fmt.Errorf("failed to read %s", header.Filename)
	}
	if len(data) == 0 {
		return passport.Image{}, fmt.Errorf("%s is empty", header.Filename)
	}

	return passport.Image{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
