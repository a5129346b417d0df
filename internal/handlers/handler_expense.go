package handlers

import (
	"log/slog"
	"net/http"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/dto"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

func newExpenseHandler(expenseService portssvc.ExpenseSvcFacade, balanceService portssvc.BalanceSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: expenseService, balanceService: balanceService}
}

// createExpense godoc
// @Summary Record an expense and post its split
// @Description Records a group expense, computes the per-member split and posts the linked split transfers atomically
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   expense body dto.CreateExpenseRequest true "Expense"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record expense"
// @Router /sources/{sourceID}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	req := dto.CreateExpenseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerID, ok := requireCallerID(c, logger)
	if !ok {
		return
	}

	params := portssvc.CreateExpenseParams{
		SourceID:       sourceID,
		PayerID:        req.PayerID,
		Total:          req.Total,
		CurrencyCode:   req.CurrencyCode,
		SplitPolicy:    domain.SplitPolicy(req.SplitPolicy),
		ParticipantIDs: req.ParticipantIDs,
		Category:       req.Category,
		Description:    req.Description,
	}
	for _, t := range req.Targets {
		params.Targets = append(params.Targets, domain.SplitTarget{UserID: t.UserID, Amount: t.Amount, Percent: t.Percent})
	}
	for _, it := range req.Items {
		params.Items = append(params.Items, domain.Item{
			Name:        it.Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
			AssigneeIDs: it.AssigneeIDs,
		})
	}

	expense, transfers, err := h.expenseService.CreateExpense(c.Request.Context(), params, callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record expense")
		return
	}

	logger.Info("Expense recorded", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense, transfers))
}

// getExpense godoc
// @Summary Get an expense
// @Description Retrieves an expense with its items and transfer history
// @Tags expenses
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	expense, transfers, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense, transfers))
}

// getExpenseSettled godoc
// @Summary Check whether an expense is settled
// @Description Reports whether the expense's split has been fully repaid and the amount still outstanding
// @Tags expenses
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseSettledResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to check settlement"
// @Router /expenses/{expenseID}/settled [get]
func (h *expenseHandler) getExpenseSettled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	settled, remaining, err := h.balanceService.IsExpenseSettled(c.Request.Context(), expenseID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check settlement")
		return
	}

	c.JSON(http.StatusOK, dto.ExpenseSettledResponse{ExpenseID: expenseID, Settled: settled, Remaining: remaining})
}

// registerExpenseRoutes registers expense routes.
func registerExpenseRoutes(v1 *gin.RouterGroup, sources *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newExpenseHandler(expenseService, balanceService)
	sources.POST("/:sourceID/expenses", h.createExpense)
	v1.GET("/expenses/:expenseID", h.getExpense)
	v1.GET("/expenses/:expenseID/settled", h.getExpenseSettled)
}
