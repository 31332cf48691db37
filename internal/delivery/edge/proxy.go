package edge

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/labstack/echo/v4"
)

// accessTokenKey carries the access token the silent-refresh step settled
// on through the echo context to the proxy handler.
const accessTokenKey = "edge.accessToken"

// newProxyHandler forwards the request to the backend, attaching the access
// token from the cookie jar as a bearer credential.
func newProxyHandler(target *url.URL, logger *slog.Logger) echo.HandlerFunc {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("Backend unreachable", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c echo.Context) error {
		req := c.Request()
		if token, ok := c.Get(accessTokenKey).(string); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		proxy.ServeHTTP(c.Response(), req)

		return nil
	}
}
