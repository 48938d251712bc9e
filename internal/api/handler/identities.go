package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/docuguard/docuguard/internal/domain"
)

// IdentityService is the gallery management surface the handler depends on.
type IdentityService interface {
	Enroll(ctx context.Context, externalID, name string, photo []byte) (*domain.EnrolledIdentity, error)
	Get(ctx context.Context, externalID string) (*domain.EnrolledIdentity, error)
	Delete(ctx context.Context, externalID string) error
}

// IdentityHandler handles gallery enrollment requests
type IdentityHandler struct {
	service IdentityService
	logger  *slog.Logger
}

func NewIdentityHandler(service IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		logger:  logger,
	}
}

// IdentityResponse describes one enrolled identity.
type IdentityResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
}

func toIdentityResponse(identity *domain.EnrolledIdentity) IdentityResponse {
	return IdentityResponse{
		ID:         identity.ID.String(),
		ExternalID: identity.ExternalID,
		Name:       identity.Name,
		CreatedAt:  identity.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Enroll POST /v1/identities - enroll a new identity into the gallery
func (h *IdentityHandler) Enroll(c *fiber.Ctx) error {
	externalID := strings.TrimSpace(c.FormValue("external_id"))
	if externalID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("external_id is required"))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	imageBytes, err := extractImage(c)
	if err != nil {
		return fmt.Errorf("enroll identity: %w", err)
	}

	identity, err := h.service.Enroll(c.Context(), externalID, name, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toIdentityResponse(identity))
}

// Get GET /v1/identities/:external_id - fetch an enrolled identity
func (h *IdentityHandler) Get(c *fiber.Ctx) error {
	externalID := strings.TrimSpace(c.Params("external_id"))
	if externalID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("external_id is required"))
	}

	identity, err := h.service.Get(c.Context(), externalID)
	if err != nil {
		return err
	}

	return c.JSON(toIdentityResponse(identity))
}

// Delete DELETE /v1/identities/:external_id - remove an identity from the gallery
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	externalID := strings.TrimSpace(c.Params("external_id"))
	if externalID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("external_id is required"))
	}

	if err := h.service.Delete(c.Context(), externalID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
