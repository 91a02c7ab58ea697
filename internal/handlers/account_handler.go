package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ruralpay/webbank/internal/ledger"
	mW "github.com/ruralpay/webbank/internal/middleware"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/ruralpay/webbank/internal/services"
	"github.com/sirupsen/logrus"
)

const maxTransactionsLimit = 100

// TokenResponse is returned after a successful token login
// @Description Bearer token for the JSON API
type TokenResponse struct {
	Token   string                  `json:"token"`
	Account *models.AccountSnapshot `json:"account"`
}

// Token exchanges credentials for a bearer token
// @Summary Issue access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Credentials true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/token [post]
func (h *LedgerHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if !h.decode(w, r, &req) {
		return
	}

	if !h.auth.Authenticate(r.Context(), req.Username, req.Password) {
		services.SendCodedErrorResponse(w, ledger.ErrAuthenticationFailure.Message, ledger.ErrAuthenticationFailure.Code, http.StatusUnauthorized, nil)
		return
	}

	snapshot, err := h.ledger.AccountInfo(r.Context(), req.Username)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}

	token, err := h.auth.GenerateToken(req.Username)
	if err != nil {
		logrus.Errorf("[AUTH] failed to sign token for %s: %v", req.Username, err)
		services.SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token, Account: snapshot})
}

// Logout revokes the bearer token
// @Summary Revoke access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/logout [post]
func (h *LedgerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := mW.TokenFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	if err := h.auth.RevokeToken(r.Context(), token); err != nil {
		logrus.Errorf("[AUTH] failed to revoke token: %v", err)
		services.SendErrorResponse(w, "Failed to logout", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Account returns the authenticated customer's snapshot
// @Summary Get account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AccountSnapshot
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /account [get]
func (h *LedgerHandler) Account(w http.ResponseWriter, r *http.Request) {
	customerID, ok := mW.CustomerIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	snapshot, err := h.ledger.AccountInfo(r.Context(), customerID)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Transactions lists recent transactions, newest first
// @Summary List transactions
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of transactions (1-100)" default(10)
// @Success 200 {object} map[string][]models.TransactionRecord
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /transactions [get]
func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	customerID, ok := mW.CustomerIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTransactionsLimit {
			services.SendErrorResponse(w, "limit must be between 1 and 100", http.StatusBadRequest, nil)
			return
		}
		limit = n
	}

	records, err := h.ledger.RecentTransactions(r.Context(), customerID, limit)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": records})
}

// OverdraftLogs lists overdraft repayments, newest first
// @Summary List overdraft logs
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.OverdraftLog
// @Failure 401 {object} services.ErrorResponse
// @Router /overdraft-logs [get]
func (h *LedgerHandler) OverdraftLogs(w http.ResponseWriter, r *http.Request) {
	customerID, ok := mW.CustomerIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	logs, err := h.ledger.OverdraftLogs(r.Context(), customerID)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	if logs == nil {
		logs = []models.OverdraftLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"overdraftLogs": logs})
}

func (h *LedgerHandler) writeAPIError(w http.ResponseWriter, err error) {
	var rej *ledger.Rejection
	if errors.As(err, &rej) {
		services.SendCodedErrorResponse(w, rej.Message, rej.Code, rejectionStatus(rej), nil)
		return
	}
	logrus.Errorf("[LEDGER] read failed: %v", err)
	services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
}
