package feed

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, viewerMiddleware fiber.Handler) {
	r.Get("/", viewerMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		size := c.QueryInt("page_size")

		var (
			page Page
			err  error
		)
		if cursor := c.Query("cursor"); cursor != "" {
			page, err = svc.NextPage(c.Context(), viewerID, cursor, size)
		} else {
			page, err = svc.FirstPage(c.Context(), viewerID, size)
		}
		if errors.Is(err, ErrBadCursor) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cursor")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(page)
	})
}
