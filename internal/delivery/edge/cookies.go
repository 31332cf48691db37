package edge

import (
	"net/http"
	"time"

	"fintrack/config"

	"github.com/labstack/echo/v4"
)

// clearAuthCookies expires both auth cookies on the outgoing response.
func clearAuthCookies(c echo.Context, cfg *config.Config) {
	for _, name := range []string{cfg.Cookies.AccessTokenName, cfg.Cookies.RefreshTokenName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   int((-time.Second).Seconds()),
			HttpOnly: true,
			Secure:   cfg.Cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// applySetCookies replays upstream Set-Cookie headers onto the response.
func applySetCookies(c echo.Context, setCookies []string) {
	header := c.Response().Header()
	for _, value := range setCookies {
		header.Add("Set-Cookie", value)
	}
}

// cookieValueFromSetCookies extracts the named cookie's value from raw
// Set-Cookie header lines, so the proxy can attach the just-refreshed access
// token to the forwarded request.
func cookieValueFromSetCookies(setCookies []string, name string) (string, bool) {
	header := http.Header{}
	for _, value := range setCookies {
		header.Add("Set-Cookie", value)
	}
	resp := http.Response{Header: header}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}

	return "", false
}
