package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig allows the configured browser origins to send the session cookie.
func (c *Config) CORSConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins:     c.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

func (c *Config) SecureConfig() middleware.SecureConfig {
	cfg := middleware.DefaultSecureConfig
	cfg.ContentTypeNosniff = "nosniff"
	cfg.XFrameOptions = "DENY"
	cfg.ReferrerPolicy = "no-referrer"
	if c.IsProduction() {
		cfg.HSTSMaxAge = 31536000
	}
	return cfg
}
