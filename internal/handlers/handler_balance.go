package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/dto"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler handles the read-side balance and history queries.
type balanceHandler struct {
	balanceService  portssvc.BalanceSvcFacade
	transferService portssvc.TransferSvcFacade
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade, transferService portssvc.TransferSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: balanceService, transferService: transferService}
}

// getUserBalance godoc
// @Summary Get one member's balance
// @Description Returns a member's asset, liability and net position on the source for a currency
// @Tags balances
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   userID path string true "User ID"
// @Param   currencyCode query string false "Currency code (default THB)"
// @Success 200 {object} dto.UserBalanceResponse
// @Failure 400 {object} map[string]string "Unknown currency"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /sources/{sourceID}/balances/{userID} [get]
func (h *balanceHandler) getUserBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")
	userID := c.Param("userID")

	currency, err := currencyFromCode(c.Query("currencyCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.balanceService.GetUserBalance(c.Request.Context(), userID, sourceID, currency.Ledger)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserBalanceResponse(*balance, currency.Code))
}

// getGroupBalances godoc
// @Summary Get every member's balance
// @Description Returns each member's net position on the source for a currency
// @Tags balances
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   currencyCode query string false "Currency code (default THB)"
// @Success 200 {object} dto.GroupBalancesResponse
// @Failure 400 {object} map[string]string "Unknown currency"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Router /sources/{sourceID}/balances [get]
func (h *balanceHandler) getGroupBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	currency, err := currencyFromCode(c.Query("currencyCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balances, err := h.balanceService.GetGroupBalances(c.Request.Context(), sourceID, currency.Ledger)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balances")
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupBalancesResponse(sourceID, currency.Code, balances))
}

// getDebts godoc
// @Summary Get the settlement plan
// @Description Returns a minimal set of payments that settles all debts in the source
// @Tags balances
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   currencyCode query string false "Currency code (default THB)"
// @Success 200 {object} dto.DebtsResponse
// @Failure 400 {object} map[string]string "Unknown currency"
// @Failure 500 {object} map[string]string "Failed to compute debts"
// @Router /sources/{sourceID}/debts [get]
func (h *balanceHandler) getDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	currency, err := currencyFromCode(c.Query("currencyCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	debts, err := h.balanceService.GetDebts(c.Request.Context(), sourceID, currency.Ledger)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute debts")
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtsResponse(sourceID, currency.Code, debts))
}

// listTransfers godoc
// @Summary List transfer history
// @Description Returns a token-paginated transfer history for the source, newest first
// @Tags transfers
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   currencyCode query string false "Currency code (default THB)"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} map[string]string "Unknown currency or bad token"
// @Failure 500 {object} map[string]string "Failed to list transfers"
// @Router /sources/{sourceID}/transfers [get]
func (h *balanceHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	currency, err := currencyFromCode(c.Query("currencyCode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	transfers, token, err := h.transferService.ListTransfersBySource(c.Request.Context(), sourceID, currency.Ledger, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransfersResponse(transfers, token))
}

// getTransfer godoc
// @Summary Get one transfer
// @Description Returns a single transfer by its identifier
// @Tags transfers
// @Produce  json
// @Param   transferID path string true "Transfer ID"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 500 {object} map[string]string "Failed to load transfer"
// @Router /transfers/{transferID} [get]
func (h *balanceHandler) getTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transferID := c.Param("transferID")

	transfer, err := h.transferService.GetTransferByID(c.Request.Context(), transferID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load transfer")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(*transfer))
}

// registerBalanceRoutes registers balance and history routes.
func registerBalanceRoutes(v1 *gin.RouterGroup, sources *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, transferService portssvc.TransferSvcFacade) {
	h := newBalanceHandler(balanceService, transferService)
	sources.GET("/:sourceID/balances", h.getGroupBalances)
	sources.GET("/:sourceID/balances/:userID", h.getUserBalance)
	sources.GET("/:sourceID/debts", h.getDebts)
	sources.GET("/:sourceID/transfers", h.listTransfers)
	v1.GET("/transfers/:transferID", h.getTransfer)
}
