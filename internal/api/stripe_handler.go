package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type CheckoutEvents interface {
	HandleCheckoutCompleted(ctx context.Context, sessionID string) error
	HandleRefund(ctx context.Context, paymentIntentID string) error
}

type StripeWebhookHandler struct {
	StripeSecret string
	bookings     CheckoutEvents
}

func NewStripeWebhookHandler(stripeSecret string, bookings CheckoutEvents) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret: stripeSecret,
		bookings:     bookings,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("Error reading webhook body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.StripeSecret)
	if err != nil {
		log.Warn().Err(err).Msg("Webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			log.Error().Err(err).Msg("Error parsing checkout.session")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.bookings.HandleCheckoutCompleted(r.Context(), sess.ID); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("Error confirming paid booking")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			log.Error().Err(err).Msg("Error parsing charge")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			if err := h.bookings.HandleRefund(r.Context(), charge.PaymentIntent.ID); err != nil {
				log.Error().Err(err).Str("payment_intent", charge.PaymentIntent.ID).Msg("Error recording refund")
			}
		}

	default:
		log.Debug().Str("type", string(event.Type)).Msg("Unhandled webhook event")
	}

	w.WriteHeader(http.StatusOK)
}
