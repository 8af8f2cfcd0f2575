package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
)

func TestNotificationService_OrderPending(t *testing.T) {
	var sent []port.SMSRecipient
	notifier := &mockNotifier{
		sendBulkFunc: func(ctx context.Context, recipients []port.SMSRecipient) port.BulkSendResult {
			sent = recipients
			return port.BulkSendResult{SuccessCount: len(recipients)}
		},
	}
	svc := NewNotificationService(notifier, "https://po.fieldops.example/", &mockLogger{})

	order := &entity.Order{ID: "order-1", OrderNumber: "ORD-20260831-0001"}
	approvers := []*entity.Approver{
		{ID: "a1", User: &entity.User{ID: "u1", Phone: "+15551110000"}},
		{ID: "a2", User: &entity.User{ID: "u2"}}, // no phone
		{ID: "a3"},                               // no user loaded
		{ID: "a4", User: &entity.User{ID: "u4", Phone: "+15552220000"}},
	}

	svc.OrderPending(context.Background(), order, approvers, "Jordan Reyes")

	if len(sent) != 2 {
		t.Fatalf("OrderPending() queued %d messages, want 2", len(sent))
	}
	if sent[0].To != "+15551110000" || sent[1].To != "+15552220000" {
		t.Errorf("OrderPending() recipients = %s, %s", sent[0].To, sent[1].To)
	}
	for _, r := range sent {
		if !strings.Contains(r.Message, "ORD-20260831-0001") {
			t.Errorf("message %q missing order number", r.Message)
		}
		if !strings.Contains(r.Message, "Jordan Reyes") {
			t.Errorf("message %q missing submitter name", r.Message)
		}
		if !strings.Contains(r.Message, "https://po.fieldops.example/orders/order-1") {
			t.Errorf("message %q missing deep link", r.Message)
		}
	}
}

func TestNotificationService_OrderPending_NoRecipients(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewNotificationService(notifier, "https://po.fieldops.example", &mockLogger{})

	order := &entity.Order{ID: "order-1", OrderNumber: "ORD-20260831-0001"}
	svc.OrderPending(context.Background(), order, []*entity.Approver{{ID: "a1"}}, "Jordan Reyes")

	if len(notifier.bulkSent) != 0 {
		t.Errorf("OrderPending() should not call the notifier with no recipients")
	}
}

func TestNotificationService_OrderPaid(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		var message string
		notifier := &mockNotifier{
			sendFunc: func(ctx context.Context, to, msg string) bool {
				message = msg
				return true
			},
		}
		svc := NewNotificationService(notifier, "https://po.fieldops.example", &mockLogger{})

		order := &entity.Order{ID: "order-1", OrderNumber: "ORD-20260831-0001"}
		requester := &entity.User{ID: "u1", Phone: "+15551110000"}
		svc.OrderPaid(context.Background(), order, requester, "", "")

		if !strings.Contains(message, "Unknown Vendor") {
			t.Errorf("message %q missing vendor fallback", message)
		}
		if !strings.Contains(message, "N/A") {
			t.Errorf("message %q missing PO fallback", message)
		}
	})

	t.Run("requester without phone", func(t *testing.T) {
		notifier := &mockNotifier{}
		svc := NewNotificationService(notifier, "https://po.fieldops.example", &mockLogger{})

		order := &entity.Order{ID: "order-1", OrderNumber: "ORD-20260831-0001"}
		svc.OrderPaid(context.Background(), order, &entity.User{ID: "u1"}, "Acme Supply", "PO-1001")

		if len(notifier.sent) != 0 {
			t.Errorf("OrderPaid() should not send without a phone number")
		}
	})
}

func TestNotificationService_RepairCompleted(t *testing.T) {
	var to, message string
	notifier := &mockNotifier{
		sendFunc: func(ctx context.Context, recipient, msg string) bool {
			to = recipient
			message = msg
			return true
		},
	}
	svc := NewNotificationService(notifier, "https://po.fieldops.example", &mockLogger{})

	repair := &entity.Repair{ID: "repair-1", RepairNumber: "REP-20260831-0001"}
	svc.RepairCompleted(context.Background(), repair, &entity.User{ID: "u1", Phone: "+15553330000"})

	if to != "+15553330000" {
		t.Errorf("RepairCompleted() sent to %s", to)
	}
	if !strings.Contains(message, "REP-20260831-0001") {
		t.Errorf("message %q missing repair number", message)
	}
	if !strings.Contains(message, "https://po.fieldops.example/repairs/repair-1") {
		t.Errorf("message %q missing deep link", message)
	}
}
