package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/paylight/bankcore/internal/application"
	"github.com/paylight/bankcore/internal/domain"
	"github.com/paylight/bankcore/pkg/response"
	"github.com/paylight/bankcore/pkg/validation"
)

// UserHandler maps HTTP requests onto the user service. It holds no
// business rules: binding, status codes and the response envelope only.
type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Name           string   `json:"name" binding:"required"`
	InitialBalance *float64 `json:"initial_balance" binding:"omitempty,gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,currency"`
}

type amountRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,currency"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

type transferRequest struct {
	FromUserID string  `json:"from_user_id" binding:"required,uuid4"`
	ToUserID   string  `json:"to_user_id" binding:"required,uuid4"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Currency   string  `json:"currency" binding:"omitempty,currency"`
}

// resultStatus picks the HTTP status for a use-case outcome. The service
// hides the error taxonomy behind {success, message}, so failures map to
// 422 across the board.
func resultStatus(res userapp.UserResult, okStatus int) int {
	if res.Success {
		return okStatus
	}
	return http.StatusUnprocessableEntity
}

func respondResult(c *gin.Context, res userapp.UserResult, okStatus int) {
	status := resultStatus(res, okStatus)
	if res.Success {
		response.Success(c, status, res, res.Message, nil)
		return
	}
	response.Error[any](c, status, res.Message, nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.CreateUser(c.Request.Context(), userapp.CreateUserRequest{
		Email:          req.Email,
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		Currency:       req.Currency,
	})
	respondResult(c, res, http.StatusCreated)
}

func (h *UserHandler) Get(c *gin.Context) {
	view, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if domain.IsCode(err, domain.ErrCodeNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		if domain.IsCode(err, domain.ErrCodeValidation) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.logError("get user failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, view, "user retrieved", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		views []userapp.UserView
		err   error
	)
	switch {
	case c.Query("verified") == "true":
		views, err = h.Svc.ListVerifiedUsers(ctx)
	case c.Query("recent_hours") != "":
		var hours int
		if hours, err = parsePositiveInt(c.Query("recent_hours")); err == nil {
			views, err = h.Svc.ListRecentUsers(ctx, time.Duration(hours)*time.Hour)
		}
	case c.Query("min_balance") != "":
		var min float64
		if min, err = parseNonNegativeFloat(c.Query("min_balance")); err == nil {
			views, err = h.Svc.ListUsersWithBalanceAbove(ctx, min, c.Query("currency"))
		}
	default:
		views, err = h.Svc.ListUsers(ctx)
	}
	if err != nil {
		if domain.IsCode(err, domain.ErrCodeValidation) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.logError("list users failed", err)
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, views, "users retrieved", map[string]any{"count": len(views)})
}

func (h *UserHandler) Credit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	respondResult(c, h.Svc.CreditUser(c.Request.Context(), c.Param("id"), req.Amount, req.Currency), http.StatusOK)
}

func (h *UserHandler) Debit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	respondResult(c, h.Svc.DebitUser(c.Request.Context(), c.Param("id"), req.Amount, req.Currency), http.StatusOK)
}

func (h *UserHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	respondResult(c, h.Svc.TransferBalance(c.Request.Context(), req.FromUserID, req.ToUserID, req.Amount, req.Currency), http.StatusOK)
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	respondResult(c, h.Svc.VerifyUserEmail(c.Request.Context(), c.Param("id")), http.StatusOK)
}

func (h *UserHandler) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	respondResult(c, h.Svc.RenameUser(c.Request.Context(), c.Param("id"), req.Name), http.StatusOK)
}

func (h *UserHandler) Delete(c *gin.Context) {
	respondResult(c, h.Svc.DeleteUser(c.Request.Context(), c.Param("id")), http.StatusOK)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	size, _ := parsePositiveInt(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.logError("user search failed", err)
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *UserHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.WithField("error", err.Error()).Error(msg)
	}
}
