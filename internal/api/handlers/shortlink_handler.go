package handlers

import (
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/shortlink"

	"github.com/gofiber/fiber/v2"
)

type (
	ShortLinkHandler interface {
		GetLink(c *fiber.Ctx) error
		Redirect(c *fiber.Ctx) error
	}

	shortLinkHandler struct {
		shortLinkService shortlink.ShortLinkService
	}
)

func NewShortLinkHandler(shortLinkService shortlink.ShortLinkService) ShortLinkHandler {
	return &shortLinkHandler{shortLinkService: shortLinkService}
}

func (h *shortLinkHandler) GetLink(c *fiber.Ctx) error {
	res, err := h.shortLinkService.Resolve(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetLink, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLink)
}

// Redirect resolves /s/:code to the recipe's canonical path.
func (h *shortLinkHandler) Redirect(c *fiber.Ctx) error {
	target, err := h.shortLinkService.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrShortLinkNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetLink, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetLink, err)
	}
	return c.Redirect(target, fiber.StatusFound)
}
