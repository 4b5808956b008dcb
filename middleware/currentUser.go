package middleware

import (
	"errors"
	"khatabook/database"
	"khatabook/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LoadCurrentUser loads the merchant behind the token into c.Locals("user").
// It must run after JWTMiddleware.
func LoadCurrentUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Account no longer exists!", nil)
		}
		log.Printf("Error loading user %d: %v", userID, err)
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading account!", nil)
	}

	c.Locals("user", &user)
	return c.Next()
}
