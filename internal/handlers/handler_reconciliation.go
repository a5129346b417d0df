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

// reconciliationHandler handles post-hoc expense corrections.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

// reconcileExpense godoc
// @Summary Reconcile an expense
// @Description Applies a batch of corrections to a recorded expense and posts compensating adjustment transfers for the share deltas, all in one transaction
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Param   reconciliation body dto.ReconcileExpenseRequest true "Adjustments"
// @Success 200 {object} dto.ReconcileExpenseResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to reconcile expense"
// @Router /expenses/{expenseID}/reconcile [post]
func (h *reconciliationHandler) reconcileExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	req := dto.ReconcileExpenseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ReconcileExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerID, ok := requireCallerID(c, logger)
	if !ok {
		return
	}

	adjustments := make([]domain.Adjustment, len(req.Adjustments))
	for i, a := range req.Adjustments {
		adj := domain.Adjustment{
			Op:          domain.AdjustmentOp(a.Op),
			AssigneeIDs: a.AssigneeIDs,
		}
		if a.ItemID != nil {
			adj.ItemID = *a.ItemID
		}
		if a.UserID != nil {
			adj.UserID = *a.UserID
		}
		if a.Category != nil {
			adj.Category = *a.Category
		}
		if a.Description != nil {
			adj.Description = *a.Description
		}
		if a.Item != nil {
			adj.Item = &domain.Item{
				Name:        a.Item.Name,
				Quantity:    a.Item.Quantity,
				Price:       a.Item.Price,
				AssigneeIDs: a.Item.AssigneeIDs,
			}
		}
		adjustments[i] = adj
	}

	expense, transfers, err := h.reconciliationService.ReconcileExpense(c.Request.Context(), expenseID, adjustments, callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile expense")
		return
	}

	logger.Info("Expense reconciled", slog.String("expense_id", expenseID), slog.Int("adjustment_transfers", len(transfers)))
	resp := dto.ReconcileExpenseResponse{
		Expense:     dto.ToExpenseResponse(*expense, nil),
		Adjustments: []dto.TransferResponse{},
	}
	for _, t := range transfers {
		resp.Adjustments = append(resp.Adjustments, dto.ToTransferResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// registerReconciliationRoutes registers the reconcile route.
func registerReconciliationRoutes(v1 *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)
	v1.POST("/expenses/:expenseID/reconcile", h.reconcileExpense)
}
