package auth

import (
	"encoding/json"
	"time"

	"github.com/craftfolio/api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Protected rejects requests that do not carry a valid access token. The
// authenticated user id is stored in c.Locals("user_id") for downstream
// handlers; ownership checks always read it from there, never from the body.
func Protected(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" && isBlacklisted(c, opt, "blacklist:access:"+accessToken) {
			opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted access token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token has been invalidated",
			})
		}
		if refreshToken != "" && isBlacklisted(c, opt, "blacklist:refresh:"+refreshToken) {
			opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted refresh token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Refresh token has been invalidated",
			})
		}

		if accessToken == "" {
			opt.Logger.Debug(c.Context()).Logs("No access token found, attempting refresh")
			newAccessToken, err := handleTokenRefresh(c, opt, refreshToken)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
			}
			accessToken = newAccessToken
		}

		claims, err := VerifyToken(accessToken)
		if err == ErrExpiredToken {
			opt.Logger.Debug(c.Context()).Logs("Access token expired, attempting refresh")
			newAccessToken, rerr := handleTokenRefresh(c, opt, refreshToken)
			if rerr != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired"})
			}
			claims, err = VerifyToken(newAccessToken)
		}
		if err != nil {
			opt.Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Access token invalid")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid access token",
			})
		}

		// A valid token for a deleted or deactivated account is still rejected.
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid access token",
			})
		}
		user, err := models.GetUserByID(c.Context(), opt.Rclient, opt.DB, userID)
		if err != nil {
			opt.Logger.Warn(c.Context()).WithFields("user_id", claims.UserID).Logs("User not found")
			ClearAuthCookies(c)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is deactivated",
			})
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

// Optional resolves the caller's identity when a valid token is present but
// never fails the request. Public endpoints use it so owners see their own
// hidden resources.
func Optional(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		if accessToken == "" || isBlacklisted(c, opt, "blacklist:access:"+accessToken) {
			return c.Next()
		}
		if claims, err := VerifyToken(accessToken); err == nil {
			c.Locals("user_id", claims.UserID)
		}
		return c.Next()
	}
}

func isBlacklisted(c *fiber.Ctx, opt Options, key string) bool {
	if opt.Rclient == nil {
		return false
	}
	return opt.Rclient.Exists(c.Context(), key).Val() > 0
}

// RefreshTokens rotates the caller's refresh token and issues a new access
// token, setting both cookies. Exposed for the explicit refresh endpoint; the
// Protected middleware also uses it when the access token has expired.
func RefreshTokens(c *fiber.Ctx, opt Options) (string, error) {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" && isBlacklisted(c, opt, "blacklist:refresh:"+refreshToken) {
		return "", ErrInvalidToken
	}
	return handleTokenRefresh(c, opt, refreshToken)
}

// handleTokenRefresh rotates the refresh token and issues a new access token.
func handleTokenRefresh(c *fiber.Ctx, opt Options, refreshToken string) (string, error) {
	if refreshToken == "" {
		opt.Logger.Warn(c.Context()).Logs("Refresh token missing")
		return "", ErrInvalidToken
	}
	if opt.Rclient == nil {
		return "", ErrInvalidToken
	}

	refreshKey := "refresh:" + refreshToken
	refreshDataJSON, err := opt.Rclient.Get(c.Context(), refreshKey).Result()
	if err != nil || refreshDataJSON == "" {
		opt.Logger.Warn(c.Context()).Logs("Invalid/expired refresh token")
		return "", ErrInvalidToken
	}

	var refreshData map[string]interface{}
	if err := json.Unmarshal([]byte(refreshDataJSON), &refreshData); err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse refresh data")
		return "", ErrInvalidToken
	}

	userID, ok := refreshData["user_id"].(string)
	if !ok || userID == "" {
		opt.Logger.Warn(c.Context()).Logs("Invalid refresh token data")
		return "", ErrInvalidToken
	}

	if ip, ok := refreshData["ip"].(string); !ok || ip != c.IP() {
		opt.Logger.Warn(c.Context()).WithFields("user_id", userID).Logs("Refresh token IP mismatch")
		opt.Rclient.Del(c.Context(), refreshKey)
		return "", ErrInvalidToken
	}

	newAccessToken, err := GenerateAccessToken(userID)
	if err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return "", err
	}
	newRefreshToken := GenerateRefreshToken()

	newRefreshData := map[string]interface{}{
		"user_id": userID,
		"ip":      c.IP(),
	}
	newRefreshJSON, _ := json.Marshal(newRefreshData)
	opt.Rclient.Set(c.Context(), "refresh:"+newRefreshToken, newRefreshJSON, RefreshTokenTTL)
	opt.Rclient.Del(c.Context(), refreshKey)

	SetAuthCookies(c, newAccessToken, newRefreshToken)
	c.Locals("user_id", userID)

	opt.Logger.Info(c.Context()).WithFields("user_id", userID).Logs("Tokens refreshed")
	return newAccessToken, nil
}

// SetAuthCookies writes both token cookies with matching lifetimes.
func SetAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(c *fiber.Ctx) {
	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")
}
