package settingsController

import (
	"bytes"
	"io"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/models"
	"khatabook/realtime"
	"khatabook/reports"
	settingsValidator "khatabook/validators/settings"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func store() *ledger.Store {
	return ledger.NewStore(database.Database.Db, realtime.Default)
}

// UpdateProfile changes the merchant's name, photo, shop details and preferences
func UpdateProfile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedProfile").(*settingsValidator.ProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{}
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	set("name", reqData.Name)
	set("photo_url", reqData.PhotoURL)
	set("shop_name", reqData.ShopName)
	set("shop_address", reqData.ShopAddress)
	set("shop_phone", reqData.ShopPhone)
	if reqData.Preferences != nil {
		updates["preferences"] = datatypes.JSONMap(reqData.Preferences)
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Nothing to update.", user)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	if err := db.Model(user).Updates(updates).Error; err != nil {
		log.Printf("Error updating profile of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	if err := db.First(user, user.ID).Error; err != nil {
		log.Printf("Error reloading user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

// Backup downloads every customer and transaction of the caller as JSON
func Backup(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	s := store()
	customers, err := s.ListCustomers(c.UserContext(), userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build backup!")
	}
	txns, err := s.ListTransactions(c.UserContext(), userId, 0)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to build backup!")
	}

	at := time.Now()
	c.Attachment(reports.BackupFilename(at))
	return c.JSON(reports.NewBackup(customers, txns, at))
}

// ImportPreview checks an uploaded backup, sent either as the "file" form field
// or as the raw request body, and reports what it contains. Nothing is written.
func ImportPreview(c *fiber.Ctx) error {
	var body io.Reader
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read uploaded file!", nil)
		}
		defer file.Close()
		body = file
	} else {
		if len(c.Body()) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "A backup file is required!"})
		}
		body = bytes.NewReader(c.Body())
	}

	preview, err := reports.PreviewBackup(body)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "Not a valid backup file!"})
	}

	message := "Backup is valid."
	if !preview.Valid {
		message = "Backup has problems."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, preview)
}

// Reconcile recomputes the caller's customer totals from their entries
func Reconcile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	drifts, err := store().Reconcile(c.UserContext(), userId)
	if err != nil {
		return middleware.LedgerError(c, err, "Failed to reconcile!")
	}
	if drifts == nil {
		drifts = []ledger.Drift{}
	}
	if len(drifts) > 0 {
		log.Printf("[RECONCILE] user %d: repaired %d customer(s)", userId, len(drifts))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reconciliation complete.", fiber.Map{
		"repaired": len(drifts),
		"drifts":   drifts,
	})
}
