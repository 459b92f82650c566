// Package handlers exposes the checkout endpoints consumed by the payment
// page: transaction preparation and charge creation.
package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scisoft/vnpay-checkout/internal/apperror"
	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
)

// PaymentHandler serves the provider checkout endpoints.
type PaymentHandler struct {
	service *transaction.Service
}

func NewPaymentHandler(s *transaction.Service) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type prepareRequest struct {
	AcquirerID  int    `json:"acquirer_id"`
	AccessToken string `json:"access_token"`
}

// Prepare renders the provider form contents for the transaction bound to the
// access token. The response body is an HTML fragment the page swaps into the
// provider form.
func (h *PaymentHandler) Prepare(c *gin.Context) {
	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	values, err := h.service.Prepare(c.Request.Context(), transaction.PrepareRequest{
		AcquirerID:  req.AcquirerID,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrTransactionNotFound) || errors.Is(err, apperror.ErrAcquirerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, values); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type chargeToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type chargeRequest struct {
	// tokenid and email mirror the token fields for older consumers.
	TokenID       string      `json:"tokenid"`
	Email         string      `json:"email"`
	Token         chargeToken `json:"token"`
	Amount        string      `json:"amount"`
	AcquirerID    string      `json:"acquirer_id"`
	Currency      string      `json:"currency"`
	InvoiceNumber string      `json:"invoice_num"`
	TxRef         string      `json:"tx_ref"`
	ReturnURL     string      `json:"return_url"`
}

// CreateCharge exchanges a widget token for a charge. On success the response
// body is the redirect URL; a refusal answers 402 with the provider message.
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	tokenID := req.Token.ID
	if tokenID == "" {
		tokenID = req.TokenID
	}
	email := req.Token.Email
	if email == "" {
		email = req.Email
	}

	redirectURL, err := h.service.CreateCharge(c.Request.Context(), transaction.ChargeRequest{
		TokenID: tokenID,
		Email:   email,
		TxRef:   req.TxRef,
	})
	if err != nil {
		var chargeErr *transaction.ChargeError
		switch {
		case errors.As(err, &chargeErr):
			c.JSON(http.StatusPaymentRequired, gin.H{"data": gin.H{"message": chargeErr.Message}})
		case errors.Is(err, apperror.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, redirectURL)
}

// Refund refunds a validated transaction in full.
func (h *PaymentHandler) Refund(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing reference"})
		return
	}

	err := h.service.Refund(c.Request.Context(), reference)
	if err != nil {
		var chargeErr *transaction.ChargeError
		switch {
		case errors.As(err, &chargeErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"data": gin.H{"message": chargeErr.Message}})
		case errors.Is(err, apperror.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
