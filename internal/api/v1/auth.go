package v1

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/craftfolio/api/internal/auth"
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func Register(c *fiber.Ctx) error {
	type UserInput struct {
		Name            string `json:"name" validate:"omitempty,max=100"`
		Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
		Email           string `json:"email" validate:"required,email,max=100"`
		Password        string `json:"password" validate:"required,min=8,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=8"`
	}
	ui := new(UserInput)
	if err := utils.StrictBodyParser(c, &ui); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse registration body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(ui); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Registration validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	ui.Email = strings.ToLower(strings.TrimSpace(ui.Email))

	hashedPass, err := utils.HashPassword(ui.Password)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	user, err := models.NewUser(c.Context(), Redis, DB, ui.Username, ui.Email, hashedPass, models.WithName(ui.Name))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			Logger.Warn(c.Context()).Logs(fmt.Sprintf("Duplicate username or email: %s", ui.Email))
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username or email already exists",
			})
		}
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs("User registered")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	li := new(LoginInput)
	if err := utils.StrictBodyParser(c, &li); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(li); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	email := strings.ToLower(strings.TrimSpace(li.Email))
	user, err := models.GetUserBy(c.Context(), Redis, DB, "email = ?", []interface{}{email})
	if err != nil {
		Logger.Warn(c.Context()).WithFields("email", email).Logs("Login attempt for unknown email")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if err := utils.ComparePasswords(user.Password, li.Password); err != nil {
		Logger.Warn(c.Context()).WithFields("user_id", user.ID.String()).Logs("Login attempt with wrong password")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is deactivated",
		})
	}

	accessToken, err := auth.GenerateAccessToken(user.ID.String())
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}
	refreshToken := auth.GenerateRefreshToken()

	refreshData, _ := json.Marshal(map[string]interface{}{
		"user_id": user.ID.String(),
		"ip":      c.IP(),
	})
	if err := Redis.Set(c.Context(), "refresh:"+refreshToken, refreshData, auth.RefreshTokenTTL).Err(); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to store refresh token")
	}

	auth.SetAuthCookies(c, accessToken, refreshToken)

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs("User logged in")

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	accessToken := c.Cookies("access_token")
	refreshToken := c.Cookies("refresh_token")

	// Blacklist both tokens for the rest of their natural lifetime.
	if accessToken != "" {
		if err := Redis.Set(c.Context(), "blacklist:access:"+accessToken, "1", auth.AccessTokenTTL).Err(); err != nil {
			Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to blacklist access token")
		}
	}
	if refreshToken != "" {
		if err := Redis.Set(c.Context(), "blacklist:refresh:"+refreshToken, "1", auth.RefreshTokenTTL).Err(); err != nil {
			Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to blacklist refresh token")
		}
		Redis.Del(c.Context(), "refresh:"+refreshToken)
	}

	auth.ClearAuthCookies(c)

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// Refresh rotates the session tokens using the refresh cookie. The old
// refresh token is consumed; both cookies are reissued on success.
func Refresh(c *fiber.Ctx) error {
	if _, err := auth.RefreshTokens(c, auth.Options{DB: DB, Rclient: Redis, Logger: Logger}); err != nil {
		auth.ClearAuthCookies(c)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Session refreshed",
	})
}

func Me(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	user, err := models.GetUserByID(c.Context(), Redis, DB, ownerID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}

func UpdateMe(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	type UpdateInput struct {
		Name      *string `json:"name" validate:"omitempty,max=100"`
		AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	}
	in := new(UpdateInput)
	if err := utils.StrictBodyParser(c, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	var opts []models.UserOption
	if in.Name != nil {
		opts = append(opts, models.WithName(*in.Name))
	}
	if in.AvatarURL != nil {
		opts = append(opts, models.WithAvatarURL(*in.AvatarURL))
	}
	if len(opts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No updatable fields provided",
		})
	}

	user, err := models.UpdateUser(c.Context(), Redis, DB, ownerID, opts...)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
	})
}
