package edge

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/config"
	"fintrack/internal/delivery"
	sharedmiddleware "fintrack/internal/delivery/middleware"
	"fintrack/internal/domain/lifecycle"
	"fintrack/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

// EdgeParams holds dependencies for the edge proxy server, injected by Fx.
type EdgeParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type edgeServer struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *echo.Echo
	refresher *refresher
}

// NewServer assembles the edge proxy.
func NewServer(params EdgeParams) (delivery.Delivery, error) {
	target, err := url.Parse(params.Config.Edge.BackendBaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid edge backend base url")
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(echomiddleware.Recover())

	requestIDMiddleware := sharedmiddleware.NewRequestIDMiddleware(params.Logger)
	echoServer.Use(requestIDMiddleware.Process)

	echoServer.Use(slogecho.New(params.Logger))

	srv := &edgeServer{
		cfg:       params.Config,
		logger:    params.Logger,
		server:    echoServer,
		refresher: newRefresher(params.Config, params.Logger),
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	echoServer.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	echoServer.Any("/*", newProxyHandler(target, params.Logger), srv.silentRefresh)

	params.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// publicPaths skip the silent-refresh step entirely: they either establish
// a session or must reach the backend even without one.
func isPublicPath(path string) bool {
	if path == "/login" || path == "/signup" || path == "/healthz" {
		return true
	}

	return strings.HasPrefix(path, "/auth/")
}

// silentRefresh runs the refresh orchestration ahead of the proxy for
// protected paths.
func (s *edgeServer) silentRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if isPublicPath(c.Request().URL.Path) {
			return next(c)
		}

		action, accessToken := s.refresher.ensureFresh(c)
		if action == actionRedirectLogin {
			clearAuthCookies(c, s.cfg)

			return c.Redirect(http.StatusFound, "/login")
		}

		c.Set(accessTokenKey, accessToken)

		return next(c)
	}
}

func (s *edgeServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Edge.Port))
	s.logger.Info("Starting edge proxy", slog.String("hostPort", hostPort), slog.String("backend", s.cfg.Edge.BackendBaseURL))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve edge proxy")
	}

	return nil
}

func (s *edgeServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down edge proxy")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
