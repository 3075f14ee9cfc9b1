package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUsername returns the username BearerAuth injected. An empty value means
// the token carried neither "username" nor "sub".
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}
	return username, nil
}
