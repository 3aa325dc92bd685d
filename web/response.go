package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// statusFromKind maps error kinds to HTTP status codes.
func statusFromKind(kind invoice.ErrorKind) int {
	switch kind {
	case invoice.KindValidation:
		return fiber.StatusBadRequest
	case invoice.KindNotFound:
		return fiber.StatusNotFound
	case invoice.KindConflict:
		return fiber.StatusConflict
	case invoice.KindTimeout:
		return fiber.StatusGatewayTimeout
	case invoice.KindCanceled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders a kind-classified error as a JSON response.
func writeError(c *fiber.Ctx, err error) error {
	kind := invoice.KindFromError(err)
	ge := invoice.AsGoError(err)
	return c.Status(statusFromKind(kind)).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    ge.TextCode,
			"message": ge.Message,
		},
	})
}

// writeDocument renders a document snapshot as the standard session body.
func writeDocument(c *fiber.Ctx, sessionID string, doc invoice.Document) error {
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"document":   doc,
	})
}
