package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/dto"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests for member registration and accounts.
type memberHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newMemberHandler(accountService portssvc.AccountSvcFacade) *memberHandler {
	return &memberHandler{accountService: accountService}
}

// ensureMember godoc
// @Summary Register a member in a source
// @Description Creates the member's asset/liability account pair for the currency if it does not exist yet. Idempotent.
// @Tags members
// @Accept  json
// @Produce  json
// @Param   sourceID path string true "Source ID"
// @Param   member body dto.EnsureMemberRequest true "Member"
// @Success 200 {object} dto.MemberAccountsResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to register member"
// @Router /sources/{sourceID}/members [post]
func (h *memberHandler) ensureMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID := c.Param("sourceID")

	req := dto.EnsureMemberRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for EnsureMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerID, ok := requireCallerID(c, logger)
	if !ok {
		return
	}

	currency, err := currencyFromCode(req.CurrencyCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accounts, err := h.accountService.GetOrCreateUserAccounts(c.Request.Context(), req.UserID, sourceID, currency.Ledger, callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register member")
		return
	}

	logger.Info("Member registered", slog.String("user_id", req.UserID), slog.String("source_id", sourceID))
	c.JSON(http.StatusOK, dto.ToMemberAccountsResponse(*accounts))
}

// registerMemberRoutes registers member routes on a source group.
func registerMemberRoutes(sources *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newMemberHandler(accountService)
	sources.POST("/:sourceID/members", h.ensureMember)
}
