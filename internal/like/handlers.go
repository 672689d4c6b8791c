package like

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the toggle endpoint. Error codes are stable strings
// the client maps back to typed errors: self_like, not_found, unauthorized.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		if viewerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		res, err := svc.Toggle(c.Context(), c.Params("id"), viewerID)
		switch {
		case errors.Is(err, ErrSelfLike):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "self_like"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	})
}
