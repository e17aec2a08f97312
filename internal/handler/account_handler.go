package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// AccountHandler handles guest data import and account deletion
type AccountHandler struct {
	migrationService *service.MigrationService
	accountService   *service.AccountService
}

func NewAccountHandler(migrationService *service.MigrationService, accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		migrationService: migrationService,
		accountService:   accountService,
	}
}

// ImportGuestData godoc
// @Summary Import data kept on the device before sign-in
// @Description Inserts anything the account does not have yet. Running the same import twice changes nothing.
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ImportRequest true "Guest data"
// @Success 200 {object} model.ImportResult
// @Failure 400 {object} model.ErrorResponse
// @Router /me/import [post]
func (h *AccountHandler) ImportGuestData(c *gin.Context) {
	var req model.ImportRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.migrationService.Import(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteAccount godoc
// @Summary Delete the account and everything it owns
// @Tags Account
// @Security BearerAuth
// @Success 204
// @Router /me [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	token, claims := currentToken(c)
	if err := h.accountService.DeleteAccount(c.Request.Context(), currentUserID(c), claims, token); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
