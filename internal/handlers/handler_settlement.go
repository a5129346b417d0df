package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/dto"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settlementHandler handles HTTP requests for repayments and the two-phase
// pending flow.
type settlementHandler struct {
	expenseService  portssvc.ExpenseSvcFacade
	transferService portssvc.TransferSvcFacade
}

func newSettlementHandler(expenseService portssvc.ExpenseSvcFacade, transferService portssvc.TransferSvcFacade) *settlementHandler {
	return &settlementHandler{expenseService: expenseService, transferService: transferService}
}

// createSettlement godoc
// @Summary Record a repayment
// @Description Records a settlement from one member to another, optionally as a pending transfer awaiting confirmation by the receiver
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   settlement body dto.CreateSettlementRequest true "Settlement"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record settlement"
// @Router /sources/{sourceID}/settlements [post]
func (h *settlementHandler) createSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	req := dto.CreateSettlementRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerID, ok := requireCallerID(c, logger)
	if !ok {
		return
	}

	params := portssvc.CreateSettlementParams{
		SourceID:     sourceID,
		FromUserID:   req.FromUserID,
		ToUserID:     req.ToUserID,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		ExpenseID:    req.ExpenseID,
		Pending:      req.Pending,
	}
	if req.TimeoutSecs != nil {
		timeout := time.Duration(*req.TimeoutSecs) * time.Second
		params.Timeout = &timeout
	}

	transfer, err := h.expenseService.CreateSettlement(c.Request.Context(), params, callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record settlement")
		return
	}

	logger.Info("Settlement recorded", slog.String("transfer_id", transfer.TransferID))
	c.JSON(http.StatusOK, dto.ToTransferResponse(*transfer))
}

// resolvePending godoc
// @Summary Post or void a pending settlement
// @Description Confirms (post) or cancels (void) a pending transfer. A pending transfer can only be resolved once.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   transferID path string true "Pending transfer ID"
// @Param   resolution body dto.ResolvePendingRequest true "Resolution"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 409 {object} map[string]string "Already resolved"
// @Failure 500 {object} map[string]string "Failed to resolve pending transfer"
// @Router /settlements/{transferID}/resolve [post]
func (h *settlementHandler) resolvePending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transferID := c.Param("transferID")

	req := dto.ResolvePendingRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ResolvePending", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerID, ok := requireCallerID(c, logger)
	if !ok {
		return
	}

	resolve := h.transferService.PostPendingTransfer
	if req.Action == "void" {
		resolve = h.transferService.VoidPendingTransfer
	}
	transfer, err := resolve(c.Request.Context(), transferID, callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve pending transfer")
		return
	}

	logger.Info("Pending transfer resolved", slog.String("transfer_id", transfer.TransferID), slog.String("action", req.Action))
	c.JSON(http.StatusOK, dto.ToTransferResponse(*transfer))
}

// registerSettlementRoutes registers settlement routes.
func registerSettlementRoutes(v1 *gin.RouterGroup, sources *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, transferService portssvc.TransferSvcFacade) {
	h := newSettlementHandler(expenseService, transferService)
	sources.POST("/:sourceID/settlements", h.createSettlement)
	v1.POST("/settlements/:transferID/resolve", h.resolvePending)
}
