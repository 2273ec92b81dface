package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"estate-crm/models"
	"estate-crm/services"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string         `json:"message"`
	Caller  *models.Caller `json:"caller"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	caller, err := services.GetCallerByUsername(c.Context(), req.Username)
	if err != nil {
		slog.Error("Failed to get caller", "error", err, "username", req.Username)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}
	if caller == nil || !services.VerifyCallerPassword(caller, req.Password) {
		slog.Info("Invalid login attempt", "username", req.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if caller.Status != "active" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account is disabled",
		})
	}

	session, err := services.CreateSession(
		c.Context(),
		caller.ID.Hex(),
		caller.Username,
		caller.Email,
		string(caller.Role),
		c.IP(),
		c.Get("User-Agent"),
	)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    session.SessionID,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	if err := services.UpdateCallerLastLogin(c.Context(), caller.ID.Hex()); err != nil {
		slog.Error("Failed to update last login", "error", err)
	}

	slog.Info("Caller logged in", "callerID", caller.ID.Hex(), "username", caller.Username)

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message: "Login successful",
		Caller:  caller,
	})
}

func Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID != "" {
		if err := services.DestroySession(c.Context(), sessionID); err != nil {
			slog.Error("Failed to destroy session", "error", err)
		}
	}

	// Clear session cookie
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func GetCurrentCaller(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil || session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	caller, err := services.GetCaller(c.Context(), session.CallerID)
	if err != nil || caller == nil {
		slog.Error("Failed to get caller", "error", err, "callerID", session.CallerID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get caller information",
		})
	}

	return c.Status(fiber.StatusOK).JSON(caller)
}

func CheckSession(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"authenticated": false,
		})
	}

	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil || session == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"authenticated": false,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"authenticated": true,
		"caller_id":     session.CallerID,
		"username":      session.Username,
		"email":         session.Email,
		"role":          session.Role,
	})
}
