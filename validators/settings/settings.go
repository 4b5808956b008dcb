package settingsValidator

import (
	"khatabook/middleware"
	"khatabook/validators/common"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ProfileRequest carries the editable profile fields. Nil fields are left unchanged.
type ProfileRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=2,max=100"`
	PhotoURL    *string                `json:"photoUrl" validate:"omitempty,url,max=500"`
	ShopName    *string                `json:"shopName" validate:"omitempty,max=150"`
	ShopAddress *string                `json:"shopAddress" validate:"omitempty,max=255"`
	ShopPhone   *string                `json:"shopPhone" validate:"omitempty,phone"`
	Preferences map[string]interface{} `json:"preferences"`
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		for _, s := range []*string{reqData.Name, reqData.PhotoURL, reqData.ShopName, reqData.ShopAddress, reqData.ShopPhone} {
			trim(s)
		}

		errors := common.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if reqData.Name != nil && *reqData.Name == "" {
			errors["name"] = "name cannot be empty!"
		}
		if len(reqData.Preferences) > 50 {
			errors["preferences"] = "preferences can hold at most 50 keys!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
