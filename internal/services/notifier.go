package services

import (
	"context"
	"fmt"
	"log/slog"

	"ticket-storefront/models"

	pubnub "github.com/pubnub/go/v7"
)

// Notifier tells the buyer's open sessions that tickets were issued.
type Notifier interface {
	TicketsIssued(ctx context.Context, userID string, tickets []models.Ticket) error
}

type NopNotifier struct{}

func (NopNotifier) TicketsIssued(context.Context, string, []models.Ticket) error { return nil }

type PubNubNotifier struct {
	pn *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pn: pn}
}

func (n *PubNubNotifier) TicketsIssued(_ context.Context, userID string, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	channel := fmt.Sprintf("user-%s", userID)
	_, st, err := n.pn.Publish().
		Channel(channel).
		Message(purchaseMessage(tickets)).
		Execute()
	if err != nil {
		slog.Error("Failed to publish purchase notification", "error", err, "channel", channel, "status_code", st.StatusCode)
		return err
	}
	return nil
}

// purchaseMessage is the payload published for one non-empty purchase.
func purchaseMessage(tickets []models.Ticket) map[string]any {
	refs := make([]string, len(tickets))
	for i, t := range tickets {
		refs[i] = t.ReferenceCode
	}
	return map[string]any{
		"type":            "tickets_purchased",
		"event_id":        tickets[0].EventID,
		"event_title":     tickets[0].EventTitle,
		"reference_codes": refs,
	}
}
