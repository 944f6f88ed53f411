package payment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"naayee/internal/models"
)

// LineReader supplies customer input lines. Implementations return once a
// line arrives, input ends or ctx is done. The process's single input owner
// implements it, so an interrupted checkout never leaves a reader holding
// the stream.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// PromptCollector is the terminal stand-in for the hosted checkout widget:
// it shows the order summary and reads the gateway receipt fields the
// customer gets after paying on the checkout page. An empty key means the
// gateway is not configured and collection fails up front.
type PromptCollector struct {
	keyID string
	in    LineReader
	out   io.Writer
}

func NewPromptCollector(keyID string, in LineReader, out io.Writer) *PromptCollector {
	return &PromptCollector{
		keyID: keyID,
		in:    in,
		out:   out,
	}
}

// Available reports whether the collector can open a checkout at all.
func (p *PromptCollector) Available() bool {
	return p.keyID != ""
}

// Collect blocks until the receipt fields are entered, input ends or ctx is
// done. The receipt's validity is the server's to judge.
func (p *PromptCollector) Collect(ctx context.Context, checkout models.Checkout) (models.PaymentReceipt, error) {
	fmt.Fprintf(p.out, "%s - %s\n", checkout.Merchant, checkout.Description)
	fmt.Fprintf(p.out, "Order %s: %d %s (key %s)\n", checkout.OrderID, checkout.Amount, checkout.Currency, p.keyID)
	fmt.Fprintln(p.out, "Complete payment in the gateway checkout, then enter the receipt.")

	paymentID, err := p.prompt(ctx, "payment id: ")
	if err != nil {
		return models.PaymentReceipt{}, err
	}
	if paymentID == "" {
		return models.PaymentReceipt{}, errors.New("checkout abandoned")
	}

	signature, err := p.prompt(ctx, "signature: ")
	if err != nil {
		return models.PaymentReceipt{}, err
	}

	return models.PaymentReceipt{
		OrderID:   checkout.OrderID,
		PaymentID: paymentID,
		Signature: signature,
	}, nil
}

func (p *PromptCollector) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.in.ReadLine(ctx)
}
