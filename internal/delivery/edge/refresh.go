package edge

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/config"
	deliverycontext "fintrack/internal/delivery/context"
	"fintrack/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// refreshAction is what the proxy should do with the request after the
// silent-refresh step.
type refreshAction int

const (
	// actionProceed forwards the request upstream.
	actionProceed refreshAction = iota
	// actionRedirectLogin clears the session and sends the browser to /login.
	actionRedirectLogin
)

// refresher performs the silent token refresh against the backend. A TTL
// cache plus singleflight collapse the burst of parallel page requests a
// browser fires after its access token went stale into one upstream call.
type refresher struct {
	cfg    *config.Config
	logger *slog.Logger
	client *http.Client
	cache  *refreshCache
	group  singleflight.Group
}

func newRefresher(cfg *config.Config, logger *slog.Logger) *refresher {
	return &refresher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  newRefreshCache(),
	}
}

// ensureFresh refreshes the access token when it is about to expire. The
// returned token is the one the proxy should attach upstream; it is empty
// when the browser holds no usable access token.
func (r *refresher) ensureFresh(c echo.Context) (refreshAction, string) {
	accessToken := cookieValue(c, r.cfg.Cookies.AccessTokenName)
	if accessToken != "" && !IsTokenExpiringSoon(accessToken, refreshBuffer) {
		return actionProceed, accessToken
	}

	refreshToken := cookieValue(c, r.cfg.Cookies.RefreshTokenName)
	if refreshToken == "" {
		// Nothing to refresh with; let the backend reject the request.
		return actionProceed, accessToken
	}

	result, err := r.refresh(c, refreshToken)
	if err != nil {
		metrics.EdgeRefreshes.WithLabelValues("network_error").Inc()
		r.log(c).Warn("Silent refresh failed, ending session", slog.Any("error", err))

		return actionRedirectLogin, ""
	}

	switch {
	case result.status == http.StatusUnauthorized:
		metrics.EdgeRefreshes.WithLabelValues("unauthorized").Inc()

		return actionRedirectLogin, ""
	case result.status == http.StatusTooManyRequests:
		// Never log the user out just because the refresh endpoint is
		// throttling; the old token may still be good for a while.
		metrics.EdgeRefreshes.WithLabelValues("rate_limited").Inc()

		return actionProceed, accessToken
	case result.status >= 200 && result.status < 300:
		metrics.EdgeRefreshes.WithLabelValues("success").Inc()
		applySetCookies(c, result.setCookies)
		if fresh, ok := cookieValueFromSetCookies(result.setCookies, r.cfg.Cookies.AccessTokenName); ok {
			return actionProceed, fresh
		}

		return actionProceed, accessToken
	default:
		// Treated as transient; the request proceeds with what it has.
		metrics.EdgeRefreshes.WithLabelValues("error").Inc()
		r.log(c).Warn("Silent refresh returned unexpected status", slog.Int("status", result.status))

		return actionProceed, accessToken
	}
}

// refresh calls the backend refresh endpoint once per refresh token per
// cache window, however many requests arrive in parallel.
func (r *refresher) refresh(c echo.Context, refreshToken string) (refreshResult, error) {
	key := cacheKey(refreshToken)

	if cached, ok := r.cache.get(key, time.Now()); ok {
		return cached, nil
	}

	value, err, _ := r.group.Do(key, func() (any, error) {
		if cached, ok := r.cache.get(key, time.Now()); ok {
			return cached, nil
		}

		result, err := r.callBackend(c)
		if err != nil {
			return refreshResult{}, err
		}
		r.cache.set(key, result, time.Now())

		return result, nil
	})
	if err != nil {
		return refreshResult{}, err
	}

	result, ok := value.(refreshResult)
	if !ok {
		return refreshResult{}, errors.New("unexpected refresh result type")
	}

	return result, nil
}

func (r *refresher) callBackend(c echo.Context) (refreshResult, error) {
	refreshURL := strings.TrimRight(r.cfg.Edge.BackendBaseURL, "/") + "/auth/refresh"

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, refreshURL, nil)
	if err != nil {
		return refreshResult{}, errors.Wrap(err, "failed to build refresh request")
	}
	// The backend reads the refresh token from the browser's cookies.
	req.Header.Set("Cookie", c.Request().Header.Get("Cookie"))

	resp, err := r.client.Do(req)
	if err != nil {
		return refreshResult{}, errors.Wrap(err, "refresh call failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return refreshResult{
		status:     resp.StatusCode,
		setCookies: resp.Header.Values("Set-Cookie"),
	}, nil
}

func (r *refresher) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), r.logger)
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
