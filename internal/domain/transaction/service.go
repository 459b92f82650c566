package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/scisoft/vnpay-checkout/internal/checkout/currency"
	"github.com/scisoft/vnpay-checkout/internal/domain/acquirer"
	"github.com/scisoft/vnpay-checkout/pkg/metrics"
)

// Service implements the checkout endpoints' business logic: transaction
// preparation and token-for-charge exchange against the provider API.
type Service struct {
	txs       Repo
	acquirers acquirer.Repo
	gateway   Gateway
	events    EventSink

	// charges collapses concurrent duplicate submissions for one reference
	// into a single gateway call.
	charges singleflight.Group
}

// NewService creates the transaction service.
func NewService(txs Repo, acquirers acquirer.Repo, gateway Gateway, events EventSink) *Service {
	return &Service{txs: txs, acquirers: acquirers, gateway: gateway, events: events}
}

// PrepareRequest identifies the transaction to render form values for.
type PrepareRequest struct {
	AcquirerID  int
	AccessToken string
}

// FormValues are the server-rendered parameters swapped into the provider
// form on the payment page.
type FormValues struct {
	AcquirerID     int
	PublishableKey string
	ImageURL       string
	Amount         float64
	Currency       string
	Email          string
	InvoiceNumber  string
	Merchant       string
	ReturnURL      string
	AccessToken    string
}

// Prepare resolves the transaction for the access token and assembles the
// values rendered into the provider form.
func (s *Service) Prepare(ctx context.Context, req PrepareRequest) (FormValues, error) {
	tx, err := s.txs.GetByAccessToken(ctx, req.AccessToken)
	if err != nil {
		return FormValues{}, fmt.Errorf("prepare: %w", err)
	}

	acq, err := s.acquirers.GetByID(ctx, req.AcquirerID)
	if err != nil {
		return FormValues{}, fmt.Errorf("prepare: %w", err)
	}

	return FormValues{
		AcquirerID:     acq.ID,
		PublishableKey: acq.PublishableKey,
		ImageURL:       acq.ImageURL,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		Email:          tx.PartnerEmail,
		InvoiceNumber:  tx.InvoiceNumber,
		Merchant:       acq.Company,
		ReturnURL:      tx.ReturnURL,
		AccessToken:    tx.AccessToken,
	}, nil
}

// ChargeRequest is a token exchange for the transaction identified by TxRef.
type ChargeRequest struct {
	TokenID string
	Email   string
	TxRef   string
}

// CreateCharge exchanges the widget token for a provider charge and returns
// the redirect URL. Concurrent submissions for the same reference share one
// gateway call; an already-validated transaction is answered from its stored
// outcome without touching the provider again.
func (s *Service) CreateCharge(ctx context.Context, req ChargeRequest) (string, error) {
	v, err, _ := s.charges.Do(req.TxRef, func() (any, error) {
		return s.createCharge(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) createCharge(ctx context.Context, req ChargeRequest) (string, error) {
	tx, err := s.txs.GetByReference(ctx, req.TxRef)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}

	if tx.Validated() {
		slog.InfoContext(ctx, "trying to validate an already validated transaction",
			slog.String("reference", tx.Reference), slog.String("state", string(tx.State)))
		if tx.State == StateDone {
			return tx.ReturnURL, nil
		}
		return "", &ChargeError{Message: tx.StateMessage}
	}

	acq, err := s.acquirers.GetByID(ctx, tx.AcquirerID)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}

	result, err := s.gateway.CreateCharge(ctx, ChargeParams{
		SecretKey:    acq.SecretKey,
		Amount:       chargeAmount(tx.Amount, tx.Currency),
		Currency:     tx.Currency,
		Reference:    tx.Reference,
		Description:  tx.Reference,
		Card:         req.TokenID,
		ReceiptEmail: strings.TrimSpace(req.Email),
	})
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}

	return s.validateResult(ctx, tx, result)
}

// validateResult applies the provider response tree to the transaction:
// succeeded finalizes it, anything else cancels it with the provider message.
func (s *Service) validateResult(ctx context.Context, tx Transaction, result GatewayResult) (string, error) {
	if result.Status == "succeeded" {
		if err := s.txs.SetValidated(ctx, tx.Reference, StateDone, "", result.ID); err != nil {
			return "", fmt.Errorf("finalize transaction: %w", err)
		}
		s.recordEvent(ctx, tx.Reference, StateDone, "")
		metrics.ChargesTotal.WithLabelValues("succeeded").Inc()
		return tx.ReturnURL, nil
	}

	msg := result.ErrorMessage
	slog.WarnContext(ctx, "charge refused by provider",
		slog.String("reference", tx.Reference), slog.String("message", msg))
	if err := s.txs.SetValidated(ctx, tx.Reference, StateCancel, msg, result.ID); err != nil {
		return "", fmt.Errorf("cancel transaction: %w", err)
	}
	s.recordEvent(ctx, tx.Reference, StateCancel, msg)
	metrics.ChargesTotal.WithLabelValues("refused").Inc()
	return "", &ChargeError{Message: msg}
}

// Refund refunds the full charge of a validated transaction.
func (s *Service) Refund(ctx context.Context, reference string) error {
	tx, err := s.txs.GetByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	if tx.AcquirerRef == "" {
		return fmt.Errorf("refund: transaction %s has no charge", reference)
	}

	acq, err := s.acquirers.GetByID(ctx, tx.AcquirerID)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}

	result, err := s.gateway.CreateRefund(ctx, RefundParams{
		SecretKey: acq.SecretKey,
		Charge:    tx.AcquirerRef,
		Amount:    int64(math.Round(tx.Amount * 100)),
		Reference: tx.Reference,
	})
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	if result.ErrorMessage != "" {
		return &ChargeError{Message: result.ErrorMessage}
	}

	s.recordEvent(ctx, tx.Reference, tx.State, "refund "+result.ID+" created")
	return nil
}

func (s *Service) recordEvent(ctx context.Context, reference string, state State, message string) {
	err := s.events.Record(ctx, Event{
		Reference: reference,
		State:     state,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "record transaction event",
			slog.String("reference", reference), slog.Any("error", err))
	}
}

// chargeAmount converts the transaction amount into the provider's smallest
// unit, honoring zero-decimal currencies.
func chargeAmount(amount float64, cur string) int64 {
	if currency.IsZeroDecimal(cur) {
		return int64(amount)
	}
	return int64(math.Round(amount * 100))
}
