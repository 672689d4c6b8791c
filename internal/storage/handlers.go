package storage

import (
	"github.com/gofiber/fiber/v2"
)

const cdnBase = "https://cdn.memepool.app/"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileName string `json:"file_name"`
		}
		_ = c.BodyParser(&body)
		if body.FileName == "" {
			body.FileName = "upload"
		}
		userID, _ := c.Locals("user_id").(string)
		url := cdnBase + body.FileName
		id, err := svc.SaveObject(c.Context(), userID, url, "meme_image")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":  id,
			"url": url,
		})
	})
}
