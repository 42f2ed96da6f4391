package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tuitionpay/internal/service"
	"tuitionpay/pkg/utils"
)

type HTTPHandler struct {
	auth     service.AuthService
	payments service.PaymentService
	history  service.HistoryService
}

func NewHTTPHandler(auth service.AuthService, payments service.PaymentService, history service.HistoryService) *HTTPHandler {
	return &HTTPHandler{auth: auth, payments: payments, history: history}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin follows the legacy login contract: logical auth failure is a
// 200 with success:false, only storage failure is a 500.
func (h *HTTPHandler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Username and password are required",
		})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) && appErr != utils.ErrInternalServer {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": utils.ErrInternalServer.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    result.User,
		"token":   result.Token,
	})
}

func (h *HTTPHandler) HandleLogout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *HTTPHandler) HandleStudentDebt(c *gin.Context) {
	record, err := h.payments.StudentDebt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": record})
}

type lookupRequest struct {
	StudentID string `json:"student_id"`
}

func (h *HTTPHandler) HandlePaymentLookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.ErrValidation)
		return
	}

	result, err := h.payments.LookupStudent(c.Request.Context(), currentCustomer(c), req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *HTTPHandler) HandlePaymentConfirm(c *gin.Context) {
	workflowID, ok := workflowIDParam(c)
	if !ok {
		return
	}

	info, err := h.payments.ConfirmPayment(c.Request.Context(), currentCustomer(c), workflowID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

type verifyRequest struct {
	Code string `json:"code"`
}

func (h *HTTPHandler) HandlePaymentVerify(c *gin.Context) {
	workflowID, ok := workflowIDParam(c)
	if !ok {
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.ErrOtpInvalid)
		return
	}

	result, err := h.payments.VerifyOtp(c.Request.Context(), currentCustomer(c), workflowID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *HTTPHandler) HandlePaymentCancel(c *gin.Context) {
	workflowID, ok := workflowIDParam(c)
	if !ok {
		return
	}

	if err := h.payments.CancelWorkflow(c.Request.Context(), currentCustomer(c), workflowID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment attempt cancelled"})
}

func (h *HTTPHandler) HandleTransactionList(c *gin.Context) {
	transactions, err := h.history.List(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": transactions})
}

func (h *HTTPHandler) HandleTransactionDetail(c *gin.Context) {
	transactionID, ok := transactionIDParam(c)
	if !ok {
		return
	}

	t, err := h.history.Get(c.Request.Context(), currentCustomer(c).ID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
}

func (h *HTTPHandler) HandleReceiptDownload(c *gin.Context) {
	transactionID, ok := transactionIDParam(c)
	if !ok {
		return
	}

	receipt, err := h.history.Receipt(c.Request.Context(), currentCustomer(c).ID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+receipt.Filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(receipt.Content))
}

func workflowIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, utils.ErrWorkflowNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func transactionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, utils.ErrTransactionNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP responses without leaking
// internal detail.
func respondError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status := appErr.Status
		if status == http.StatusOK {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "code": appErr.Code, "message": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"code":    utils.ErrInternalServer.Code,
		"message": utils.ErrInternalServer.Message,
	})
}
