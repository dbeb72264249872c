package custom_middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	ContextKey   = "api-key"
	ContextAdmin = "is-admin"
)

type ApiKeyConfig struct {
	Skipper middleware.Skipper

	// AdminKey is the key that unlocks the admin endpoints.
	AdminKey string

	QueryKeyName  string
	HeaderKeyName string
}

var (
	DefaultApiKeyConfig = ApiKeyConfig{
		Skipper:       middleware.DefaultSkipper,
		QueryKeyName:  "key",
		HeaderKeyName: "API-KEY",
	}
)

// ApiKey records the key a request carries, header taking precedence over
// the query string, and whether it matches the admin key.
func ApiKey(adminKey string) echo.MiddlewareFunc {
	config := DefaultApiKeyConfig
	config.AdminKey = adminKey
	return ApiKeyWithConfig(config)
}

func ApiKeyWithConfig(config ApiKeyConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultApiKeyConfig.Skipper
	}
	if config.QueryKeyName == "" {
		config.QueryKeyName = DefaultApiKeyConfig.QueryKeyName
	}
	if config.HeaderKeyName == "" {
		config.HeaderKeyName = DefaultApiKeyConfig.HeaderKeyName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			key := c.QueryParam(config.QueryKeyName)
			if head := c.Request().Header.Get(config.HeaderKeyName); len(head) > 0 {
				key = head
			}

			c.Set(ContextKey, key)
			c.Set(ContextAdmin, ValidKey(config.AdminKey, key))

			return next(c)
		}
	}
}

// AdminKeyAuth rejects requests that do not carry the admin key.
func AdminKeyAuth(adminKey string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + DefaultApiKeyConfig.HeaderKeyName + ",query:" + DefaultApiKeyConfig.QueryKeyName,
		Validator: func(key string, c echo.Context) (bool, error) {
			return ValidKey(adminKey, key), nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin key").SetInternal(err)
		},
	})
}

func ValidKey(adminKey, key string) bool {
	if adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1
}

func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get(ContextAdmin).(bool)
	return admin
}

func Key(c echo.Context) string {
	key, _ := c.Get(ContextKey).(string)
	return key
}
