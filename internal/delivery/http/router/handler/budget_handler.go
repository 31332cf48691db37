package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/delivery/http/response"
	"fintrack/internal/domain/entity"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BudgetHandler holds dependencies for budget handlers.
type BudgetHandler struct {
	uc     usecase.BudgetUsecase
	logger *slog.Logger
}

// NewBudgetHandler is the constructor for BudgetHandler, injected by Fx.
func NewBudgetHandler(uc usecase.BudgetUsecase, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{uc: uc, logger: logger}
}

type createBudgetRequest struct {
	Month    int     `json:"month" validate:"required,min=1,max=12"`
	Year     int     `json:"year" validate:"required,min=1970,max=9999"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Preserve bool    `json:"preserve"`
}

type updateBudgetRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type budgetView struct {
	ID        uuid.UUID `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Amount    float64   `json:"amount"`
	Preserve  bool      `json:"preserve"`
	CreatedAt time.Time `json:"createdAt"`
}

func newBudgetView(budget *entity.Budget) budgetView {
	return budgetView{
		ID:        budget.ID,
		Month:     budget.Month,
		Year:      budget.Year,
		Amount:    budget.Amount,
		Preserve:  budget.Preserve,
		CreatedAt: budget.CreatedAt,
	}
}

type budgetStatusView struct {
	Budget      *budgetView `json:"budget"`
	Month       int         `json:"month"`
	Year        int         `json:"year"`
	Spent       float64     `json:"spent"`
	Remaining   float64     `json:"remaining"`
	PercentUsed float64     `json:"percentUsed"`
	OverBudget  bool        `json:"overBudget"`
}

// List returns all of the caller's budgets, newest month first.
func (h *BudgetHandler) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	budgets, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]budgetView, 0, len(budgets))
	for _, budget := range budgets {
		views = append(views, newBudgetView(budget))
	}

	return response.Success(c, http.StatusOK, views, "Budgets retrieved successfully")
}

// Create sets a budget for one month.
func (h *BudgetHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req createBudgetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid budget input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid budget input")
	}

	budget, err := h.uc.Create(c.Request().Context(), &usecase.CreateBudgetInput{
		UserID:   userID,
		Month:    req.Month,
		Year:     req.Year,
		Amount:   req.Amount,
		Preserve: req.Preserve,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newBudgetView(budget), "Budget created successfully")
}

// Status compares the current month's budget against actual spending.
func (h *BudgetHandler) Status(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	status, err := h.uc.Status(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	view := budgetStatusView{
		Month:       status.Month,
		Year:        status.Year,
		Spent:       status.Spent,
		Remaining:   status.Remaining,
		PercentUsed: status.PercentUsed,
		OverBudget:  status.OverBudget,
	}
	if status.Budget != nil {
		budgetView := newBudgetView(status.Budget)
		view.Budget = &budgetView
	}

	return response.Success(c, http.StatusOK, view, "Budget status retrieved successfully")
}

// Get returns the caller's budget for the month in the path.
func (h *BudgetHandler) Get(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	budget, err := h.uc.Get(c.Request().Context(), userID, month, year)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBudgetView(budget), "Budget retrieved successfully")
}

// Update changes the amount of an existing budget.
func (h *BudgetHandler) Update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	var req updateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid budget input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid budget input")
	}

	budget, err := h.uc.Update(c.Request().Context(), &usecase.UpdateBudgetInput{
		UserID: userID,
		Month:  month,
		Year:   year,
		Amount: req.Amount,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBudgetView(budget), "Budget updated successfully")
}

// Delete removes the caller's budget for the month in the path.
func (h *BudgetHandler) Delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	if err := h.uc.Delete(c.Request().Context(), userID, month, year); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Budget deleted"}, "Budget deleted successfully")
}

// Preserve copies the budget into the following month.
func (h *BudgetHandler) Preserve(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	budget, err := h.uc.Preserve(c.Request().Context(), userID, month, year)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newBudgetView(budget), "Budget preserved into next month")
}

// TogglePreserve flips the budget's preserve flag.
func (h *BudgetHandler) TogglePreserve(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "month and year must be integers")
	}

	budget, err := h.uc.TogglePreserve(c.Request().Context(), userID, month, year)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBudgetView(budget), "Budget preserve flag toggled")
}

func monthYearParams(c echo.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, errors.WithStack(err)
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, errors.WithStack(err)
	}

	return month, year, nil
}
