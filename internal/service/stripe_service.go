package service

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"

	"smartparking/internal/config"
)

// metadataBookingCode is the checkout metadata key holding the booking code.
const metadataBookingCode = "booking_code"

type StripeService struct {
	currency    string
	successURL  string
	cancelURL   string
	checkoutTTL time.Duration
	now         func() time.Time
}

// NewStripeService sets the package-level Stripe key from cfg.
func NewStripeService(cfg *config.Config) *StripeService {
	stripe.Key = cfg.Stripe.SecretKey
	return &StripeService{
		currency:    cfg.Stripe.Currency,
		successURL:  cfg.Stripe.SuccessURL,
		cancelURL:   cfg.Stripe.CancelURL,
		checkoutTTL: cfg.CheckoutTTL(),
		now:         time.Now,
	}
}

// checkoutParams builds a one-line card checkout for a booking. amount is in
// the smallest currency unit (paise for INR). The session expires after the
// checkout TTL so an unpaid booking can be purged safely.
func (s *StripeService) checkoutParams(amount int64, bookingCode, customerEmail string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		ClientReferenceID:  stripe.String(bookingCode),
		CustomerEmail:      stripe.String(customerEmail),
		ExpiresAt:          stripe.Int64(s.now().Add(s.checkoutTTL).Unix()),
		SuccessURL:         stripe.String(s.successURL),
		CancelURL:          stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Parking booking %s", bookingCode)),
				},
			},
		}},
	}
	params.AddMetadata(metadataBookingCode, bookingCode)
	return params
}

// CreateCheckoutSession opens a checkout for a booking and returns its URL and id.
func (s *StripeService) CreateCheckoutSession(amount int64, bookingCode, customerEmail string) (string, string, error) {
	sess, err := session.New(s.checkoutParams(amount, bookingCode, customerEmail))
	if err != nil {
		return "", "", fmt.Errorf("creating checkout for %s: %w", bookingCode, err)
	}
	return sess.URL, sess.ID, nil
}

// RefundPaymentBySessionID refunds the payment intent behind a completed checkout.
func (s *StripeService) RefundPaymentBySessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("no checkout session to refund")
	}
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("loading checkout %s: %w", sessionID, err)
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("checkout %s has no payment to refund", sessionID)
	}
	if _, err := refund.New(&stripe.RefundParams{PaymentIntent: stripe.String(sess.PaymentIntent.ID)}); err != nil {
		return fmt.Errorf("refunding checkout %s: %w", sessionID, err)
	}
	return nil
}

// SessionIDByPaymentIntent finds the checkout session that created a payment intent.
func (s *StripeService) SessionIDByPaymentIntent(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)

	it := session.List(params)
	for it.Next() {
		if sess := it.CheckoutSession(); sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no checkout session found for payment intent %s", paymentIntentID)
}
