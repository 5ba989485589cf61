package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dmitrijs2005/repsphere/internal/server/services"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	metaTier              = "tier"
	metaUserID            = "user_id"
)

func (s *HTTPServer) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.stripeSecret == "" || s.billing == nil {
		writeError(w, http.StatusServiceUnavailable, "Stripe webhook is not configured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Webhook error: "+err.Error())
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get(stripeSignatureHeader), s.stripeSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn(ctx, "stripe signature rejected", "error", err)
		writeError(w, http.StatusBadRequest, "Webhook error: "+err.Error())
		return
	}

	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}

	var sub stripe.Subscription
	if event.Data == nil || json.Unmarshal(event.Data.Raw, &sub) != nil {
		writeError(w, http.StatusBadRequest, "Webhook error: malformed subscription")
		return
	}

	ev := subscriptionEvent(&sub)
	ev.Deleted = event.Type == stripe.EventTypeCustomerSubscriptionDeleted ||
		sub.Status == stripe.SubscriptionStatusCanceled

	l, err := s.billing.ApplySubscription(ctx, ev)
	if err != nil {
		s.logger.Error(ctx, "subscription update failed", "event_id", event.ID, "customer_id", ev.CustomerID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if l == nil {
		s.logger.Warn(ctx, "subscription for unknown customer", "event_id", event.ID, "customer_id", ev.CustomerID)
	} else {
		s.logger.Info(ctx, "subscription applied", "event_id", event.ID, "user_id", l.UserID, "tier", l.Tier)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// subscriptionEvent takes the tier from the first item's price metadata,
// then from its product metadata when the product is expanded, then from
// the subscription metadata.
func subscriptionEvent(sub *stripe.Subscription) services.SubscriptionEvent {
	ev := services.SubscriptionEvent{
		UserID: sub.Metadata[metaUserID],
		Tier:   sub.Metadata[metaTier],
	}
	if sub.Customer != nil {
		ev.CustomerID = sub.Customer.ID
	}

	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ev
	}
	price := sub.Items.Data[0].Price
	if price.Product != nil {
		ev.ProductID = price.Product.ID
		if t := price.Product.Metadata[metaTier]; t != "" {
			ev.Tier = t
		}
	}
	if t := price.Metadata[metaTier]; t != "" {
		ev.Tier = t
	}
	return ev
}
