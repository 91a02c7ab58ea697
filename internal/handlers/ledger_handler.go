package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/ruralpay/webbank/internal/services"
	"github.com/sirupsen/logrus"
)

const (
	OutcomeWelcome     = "welcome"
	OutcomeAccountInfo = "account_info"
)

// LedgerOperations is the part of services.LedgerService the handlers use.
type LedgerOperations interface {
	Login(ctx context.Context, customerID, password string) (*models.AccountSnapshot, error)
	Deposit(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error)
	Withdraw(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error)
	Dispute(ctx context.Context, customerID, password string, n int) (*models.AccountSnapshot, error)
	AccountInfo(ctx context.Context, customerID string) (*models.AccountSnapshot, error)
	RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error)
	OverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error)
}

// TokenIssuer is the part of services.AuthService the handlers use.
type TokenIssuer interface {
	Authenticate(ctx context.Context, customerID, attempt string) bool
	GenerateToken(customerID string) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

// OutcomeResponse names the page the caller should show next. Rejections
// always lead back to "welcome" and carry the reason in Code.
// @Description Result of a login, deposit, withdraw or dispute
type OutcomeResponse struct {
	Outcome string                  `json:"outcome" example:"account_info"`
	Account *models.AccountSnapshot `json:"account,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Code    string                  `json:"code,omitempty" example:"OVERDRAFT_LIMIT_EXCEEDED"`
}

type LedgerHandler struct {
	ledger    LedgerOperations
	auth      TokenIssuer
	validator *services.ValidationHelper
}

func NewLedgerHandler(ledgerOps LedgerOperations, auth TokenIssuer) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledgerOps,
		auth:      auth,
		validator: services.NewValidationHelper(),
	}
}

// Welcome is the landing outcome
// @Summary Landing page
// @Tags forms
// @Produce json
// @Success 200 {object} OutcomeResponse
// @Router / [get]
func (h *LedgerHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: OutcomeWelcome})
}

// Form returns a handler naming the form page for an operation.
func (h *LedgerHandler) Form(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: name + "_form"})
	}
}

// Login shows the account when the password matches
// @Summary Log in
// @Tags forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body Credentials true "Credentials"
// @Success 200 {object} OutcomeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} OutcomeResponse
// @Router /login [post]
func (h *LedgerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if !h.decode(w, r, &req) {
		return
	}

	snapshot, err := h.ledger.Login(r.Context(), req.Username, req.Password)
	h.writeOutcome(w, snapshot, err)
}

// Deposit credits the account
// @Summary Deposit
// @Description Amounts are in dollars and truncated to whole cents. Deposits repay overdraft first.
// @Tags forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body DepositRequest true "Deposit request"
// @Success 200 {object} OutcomeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} OutcomeResponse
// @Failure 403 {object} OutcomeResponse
// @Failure 422 {object} OutcomeResponse
// @Router /deposit [post]
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !h.decode(w, r, &req) {
		return
	}

	cents, err := ledger.MinorUnits(req.AmountToDeposit)
	if err != nil {
		h.writeOutcome(w, nil, err)
		return
	}

	snapshot, err := h.ledger.Deposit(r.Context(), req.Username, req.Password, cents)
	h.writeOutcome(w, snapshot, err)
}

// Withdraw debits the account
// @Summary Withdraw
// @Description Withdrawals beyond the balance go into overdraft with 2% interest, up to $1000.
// @Tags forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body WithdrawRequest true "Withdraw request"
// @Success 200 {object} OutcomeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} OutcomeResponse
// @Failure 403 {object} OutcomeResponse
// @Failure 422 {object} OutcomeResponse
// @Router /withdraw [post]
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !h.decode(w, r, &req) {
		return
	}

	cents, err := ledger.MinorUnits(req.AmountToWithdraw)
	if err != nil {
		h.writeOutcome(w, nil, err)
		return
	}

	snapshot, err := h.ledger.Withdraw(r.Context(), req.Username, req.Password, cents)
	h.writeOutcome(w, snapshot, err)
}

// Dispute reverses one of the three most recent transactions
// @Summary Dispute a transaction
// @Description Two reversals freeze the account.
// @Tags forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body DisputeRequest true "Dispute request"
// @Success 200 {object} OutcomeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} OutcomeResponse
// @Failure 403 {object} OutcomeResponse
// @Failure 422 {object} OutcomeResponse
// @Router /dispute [post]
func (h *LedgerHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	var req DisputeRequest
	if !h.decode(w, r, &req) {
		return
	}

	snapshot, err := h.ledger.Dispute(r.Context(), req.Username, req.Password, req.NumTransactionsAgo)
	h.writeOutcome(w, snapshot, err)
}

// decode reads a JSON or form body into req and validates it. It writes the
// error response itself and reports whether the handler should continue.
func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, req formRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		if err := dec.Decode(req); err != nil {
			services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return false
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
			return false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			services.SendErrorResponse(w, "Invalid form body", http.StatusBadRequest, nil)
			return false
		}
		if err := req.fromForm(r.PostForm); err != nil {
			services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return false
		}
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h *LedgerHandler) writeOutcome(w http.ResponseWriter, snapshot *models.AccountSnapshot, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: OutcomeAccountInfo, Account: snapshot})
		return
	}

	var rej *ledger.Rejection
	if errors.As(err, &rej) {
		writeJSON(w, rejectionStatus(rej), OutcomeResponse{Outcome: OutcomeWelcome, Error: rej.Message, Code: rej.Code})
		return
	}

	logrus.Errorf("[LEDGER] operation failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, OutcomeResponse{Outcome: OutcomeWelcome, Error: "An Internal Error Occurred"})
}

func rejectionStatus(rej *ledger.Rejection) int {
	switch rej {
	case ledger.ErrAuthenticationFailure:
		return http.StatusUnauthorized
	case ledger.ErrAccountFrozen:
		return http.StatusForbidden
	case ledger.ErrAccountNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}
