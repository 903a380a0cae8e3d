package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dooshek/winbridge/internal/logger"
)

// All endpoints answer HTTP 200; callers branch on the success flag.

func respondOK(c echo.Context, message string, data map[string]any) error {
	resp := map[string]any{"success": true}
	if message != "" {
		resp["message"] = message
	}
	for k, v := range data {
		resp[k] = v
	}
	return c.JSON(http.StatusOK, resp)
}

func respondErr(c echo.Context, err error) error {
	logger.Errorf("%s %s", err, c.Request().Method, c.Path())
	return c.JSON(http.StatusOK, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func respondErrDetails(c echo.Context, message, details string) error {
	logger.Errorf("%s %s: %s", errors.New(details), c.Request().Method, c.Path(), message)
	return c.JSON(http.StatusOK, map[string]any{
		"success": false,
		"error":   message,
		"details": details,
	})
}
