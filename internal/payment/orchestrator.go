package payment

import (
	"context"
	"errors"
	"fmt"

	"naayee/internal/config"
	"naayee/internal/domain"
	"naayee/internal/events"
	"naayee/internal/metrics"
	"naayee/internal/models"

	"github.com/rs/zerolog"
)

var (
	// ErrOrderCreation wraps phase-one failures: the server refused or never
	// produced a payment order.
	ErrOrderCreation = errors.New("payment: order creation failed")

	// ErrCollectorUnavailable means the checkout collector cannot run; the
	// attempt fails before the collector is opened.
	ErrCollectorUnavailable = errors.New("payment: checkout unavailable")

	// ErrCollection wraps collector failures (customer abandoned checkout,
	// collector error).
	ErrCollection = errors.New("payment: collection failed")

	// ErrVerification wraps phase-two failures: the receipt was rejected or
	// the verification call itself failed. The server may still hold a paid
	// order; the client does not reconcile.
	ErrVerification = errors.New("payment: verification failed")
)

// Orchestrator runs the two-phase payment protocol: create an order for a
// validated draft, collect payment through the external checkout, then
// submit the receipt for server-side verification. Every failure is terminal
// for the attempt; the user re-initiates.
type Orchestrator struct {
	api       domain.PaymentAPI
	collector domain.Collector
	events    domain.EventPublisher
	cfg       config.PaymentConfig
	logger    zerolog.Logger
}

func NewOrchestrator(api domain.PaymentAPI, collector domain.Collector, bus domain.EventPublisher, cfg config.PaymentConfig, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:       api,
		collector: collector,
		events:    bus,
		cfg:       cfg,
		logger:    logger,
	}
}

// Process takes a validated draft through order creation, collection and
// verification, returning the verified receipt.
func (o *Orchestrator) Process(ctx context.Context, draft models.BookingDraft) (models.PaymentReceipt, error) {
	order, err := o.createOrder(ctx, draft)
	if err != nil {
		return models.PaymentReceipt{}, err
	}

	receipt, err := o.collect(ctx, draft, order)
	if err != nil {
		return models.PaymentReceipt{}, err
	}

	if err := o.verify(ctx, draft, receipt); err != nil {
		return models.PaymentReceipt{}, err
	}
	return receipt, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, draft models.BookingDraft) (*models.PaymentOrder, error) {
	order, err := o.api.CreateOrder(ctx, draft)
	if err != nil {
		metrics.IncPaymentFailure("order")
		o.logger.Error().Err(err).Int64("salon_id", draft.SalonID).Msg("order creation failed")
		o.publish(events.EventPaymentFailed, draft, "", "", "order", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}

	o.publish(events.EventOrderCreated, draft, order.ID, "", "", "")
	o.logger.Info().Str("order_id", order.ID).Int64("amount", order.Amount).Msg("payment order created")
	return order, nil
}

func (o *Orchestrator) collect(ctx context.Context, draft models.BookingDraft, order *models.PaymentOrder) (models.PaymentReceipt, error) {
	if !o.collector.Available() {
		metrics.IncPaymentFailure("collect")
		o.publish(events.EventPaymentFailed, draft, order.ID, "", "collect", ErrCollectorUnavailable.Error())
		return models.PaymentReceipt{}, ErrCollectorUnavailable
	}

	checkout := models.Checkout{
		KeyID:       o.cfg.KeyID,
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Merchant:    o.cfg.Merchant,
		Description: fmt.Sprintf("Booking for %s", draft.CustomerEmail),
		Email:       draft.CustomerEmail,
	}

	receipt, err := o.collector.Collect(ctx, checkout)
	if err != nil {
		metrics.IncPaymentFailure("collect")
		o.logger.Error().Err(err).Str("order_id", order.ID).Msg("payment collection failed")
		o.publish(events.EventPaymentFailed, draft, order.ID, "", "collect", err.Error())
		return models.PaymentReceipt{}, fmt.Errorf("%w: %w", ErrCollection, err)
	}
	if receipt.OrderID == "" {
		receipt.OrderID = order.ID
	}
	return receipt, nil
}

func (o *Orchestrator) verify(ctx context.Context, draft models.BookingDraft, receipt models.PaymentReceipt) error {
	if err := o.api.VerifyPayment(ctx, receipt); err != nil {
		metrics.IncPaymentFailure("verify")
		o.logger.Error().Err(err).Str("order_id", receipt.OrderID).Msg("payment verification failed")
		o.publish(events.EventPaymentFailed, draft, receipt.OrderID, receipt.PaymentID, "verify", err.Error())
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	metrics.IncBookingConfirmed()
	o.publish(events.EventBookingConfirmed, draft, receipt.OrderID, receipt.PaymentID, "", "")
	o.logger.Info().Str("order_id", receipt.OrderID).Str("payment_id", receipt.PaymentID).Msg("booking confirmed")
	return nil
}

func (o *Orchestrator) publish(eventType string, draft models.BookingDraft, orderID, paymentID, phase, reason string) {
	if o.events == nil {
		return
	}

	payload := events.BookingEventPayload{
		OrderID:       orderID,
		PaymentID:     paymentID,
		SalonID:       draft.SalonID,
		ServiceID:     draft.ServiceID,
		StaffID:       draft.StaffID,
		CustomerEmail: draft.CustomerEmail,
		BookingDate:   draft.BookingDate,
		Amount:        draft.Amount,
		Currency:      o.cfg.Currency,
		Phase:         phase,
		Reason:        reason,
	}

	if err := o.events.PublishJSON(eventType, payload); err != nil {
		o.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
