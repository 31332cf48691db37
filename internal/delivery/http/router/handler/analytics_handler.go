package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"fintrack/internal/delivery/http/response"
	"fintrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AnalyticsHandler holds dependencies for analytics handlers.
type AnalyticsHandler struct {
	uc     usecase.AnalyticsUsecase
	logger *slog.Logger
}

// NewAnalyticsHandler is the constructor for AnalyticsHandler, injected by Fx.
func NewAnalyticsHandler(uc usecase.AnalyticsUsecase, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, logger: logger}
}

// Overview returns all-time and current-month totals for the caller.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	overview, err := h.uc.Overview(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"totalIncome":      overview.TotalIncome,
		"totalExpense":     overview.TotalExpense,
		"balance":          overview.Balance,
		"transactionCount": overview.TransactionCount,
		"monthIncome":      overview.MonthIncome,
		"monthExpense":     overview.MonthExpense,
	}, "Overview retrieved successfully")
}

// Monthly returns per-month totals for the trailing window.
func (h *AnalyticsHandler) Monthly(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	months, err := optionalIntQuery(c, "months")
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "months must be an integer")
	}

	totals, err := h.uc.Monthly(c.Request().Context(), userID, months)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]map[string]any, 0, len(totals))
	for _, total := range totals {
		views = append(views, map[string]any{
			"month":   total.Month,
			"year":    total.Year,
			"income":  total.Income,
			"expense": total.Expense,
		})
	}

	return response.Success(c, http.StatusOK, views, "Monthly totals retrieved successfully")
}

// Categories returns the month's expense breakdown by category.
func (h *AnalyticsHandler) Categories(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearQuery(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	totals, err := h.uc.Categories(c.Request().Context(), userID, month, year)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]map[string]any, 0, len(totals))
	for _, total := range totals {
		views = append(views, map[string]any{
			"category": total.Category,
			"amount":   total.Amount,
			"percent":  total.Percent,
		})
	}

	return response.Success(c, http.StatusOK, views, "Category breakdown retrieved successfully")
}

// Daily returns the month's per-day spending.
func (h *AnalyticsHandler) Daily(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearQuery(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	totals, err := h.uc.Daily(c.Request().Context(), userID, month, year)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]map[string]any, 0, len(totals))
	for _, total := range totals {
		views = append(views, map[string]any{
			"day":    total.Day,
			"amount": total.Amount,
		})
	}

	return response.Success(c, http.StatusOK, views, "Daily totals retrieved successfully")
}

func optionalIntQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return value, nil
}

func monthYearQuery(c echo.Context) (int, int, error) {
	month, err := optionalIntQuery(c, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return 0, 0, err
	}

	return month, year, nil
}
