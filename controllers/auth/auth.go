package authController

import (
	"errors"
	"khatabook/config"
	"khatabook/database"
	"khatabook/middleware"
	"khatabook/models"
	"khatabook/utils"
	authValidator "khatabook/validators/auth"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashCost() int {
	cost := config.AppConfig.SaltRound
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// issueSession stamps the login, records where it came from and answers with
// the user and a fresh token.
func issueSession(c *fiber.Ctx, db *gorm.DB, user *models.User, provider string, status int, message string) error {
	loginAt := time.Now()
	user.LastLogin = &loginAt
	if err := db.Model(user).Update("last_login", loginAt).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	// Capture login tracking details
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		Provider:  provider,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: loginAt,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}
	log.Printf("User %d signed in with %s from IP: %s", user.ID, provider, ip)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, status, true, message, fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		log.Printf("Error checking email: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), hashCost())
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	return issueSession(c, db, &newUser, "password", fiber.StatusCreated, "User registered successfully.")
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error loading user: %v", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Google-only accounts have no password
	if user.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "This account signs in with Google.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	return issueSession(c, db, &user, "password", fiber.StatusOK, "Login successful.")
}

// GoogleLogin signs in with a Google ID token, creating the account on first use.
// An existing email account is linked to the Google identity.
func GoogleLogin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGoogle").(*authValidator.GoogleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	identity, err := utils.VerifyGoogleIDToken(reqData.IDToken)
	switch {
	case errors.Is(err, utils.ErrGoogleDisabled):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Google sign-in is not available.", nil)
	case errors.Is(err, utils.ErrGoogleTokenInvalid):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Google token!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Could not verify Google token, try again.", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	err = db.Where("google_subject = ?", identity.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("email = ?", identity.Email).First(&user).Error
	}

	status, message := fiber.StatusOK, "Login successful."
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:          identity.Name,
			Email:         identity.Email,
			PhotoURL:      identity.Picture,
			GoogleSubject: &identity.Subject,
		}
		if user.Name == "" {
			user.Name = identity.Email
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error saving google user: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
		}
		status, message = fiber.StatusCreated, "User registered successfully."
	case err != nil:
		log.Printf("Error loading google user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	default:
		updates := map[string]interface{}{}
		if user.GoogleSubject == nil {
			user.GoogleSubject = &identity.Subject
			updates["google_subject"] = identity.Subject
		}
		if user.PhotoURL == "" && identity.Picture != "" {
			user.PhotoURL = identity.Picture
			updates["photo_url"] = identity.Picture
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				log.Printf("Error linking google account: %v", err)
			}
		}
	}

	return issueSession(c, db, &user, "google", status, message)
}

func Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile.", user)
}

func LoginHistoryList(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit
	db := database.Database.Db.WithContext(c.UserContext())

	var loginTracking []models.LoginTracking
	var total int64

	if err := db.Where("user_id = ?", userId).
		Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&loginTracking).
		Error; err != nil {
		log.Printf("Error loading login history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load login history!", nil)
	}

	db.Model(&models.LoginTracking{}).Where("user_id = ?", userId).Count(&total)

	response := map[string]interface{}{
		"loginTracking": loginTracking,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", response)
}
