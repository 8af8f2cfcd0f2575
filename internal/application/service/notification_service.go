package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
)

// NotificationService sends workflow SMS notifications. Every send is
// fire-and-forget: failures are logged and swallowed so a delivery problem
// never rolls back or fails the committed transition that triggered it.
type NotificationService interface {
	OrderPending(ctx context.Context, order *entity.Order, approvers []*entity.Approver, submitterName string)
	OrderApproved(ctx context.Context, order *entity.Order, admins []*entity.User)
	OrderPaid(ctx context.Context, order *entity.Order, requester *entity.User, vendorName, poNumber string)
	RepairPending(ctx context.Context, repair *entity.Repair, approvers []*entity.Approver, submitterName string)
	RepairApproved(ctx context.Context, repair *entity.Repair, technicians []*entity.Technician)
	RepairCompleted(ctx context.Context, repair *entity.Repair, requester *entity.User)
}

type notificationServiceImpl struct {
	notifier  port.Notifier
	clientURL string
	logger    Logger
}

// NewNotificationService creates a new NotificationService. clientURL is the
// base URL deep links are built from.
func NewNotificationService(notifier port.Notifier, clientURL string, logger Logger) NotificationService {
	return &notificationServiceImpl{
		notifier:  notifier,
		clientURL: strings.TrimRight(clientURL, "/"),
		logger:    logger,
	}
}

func (s *notificationServiceImpl) orderLink(orderID string) string {
	return fmt.Sprintf("%s/orders/%s", s.clientURL, orderID)
}

func (s *notificationServiceImpl) repairLink(repairID string) string {
	return fmt.Sprintf("%s/repairs/%s", s.clientURL, repairID)
}

func (s *notificationServiceImpl) OrderPending(ctx context.Context, order *entity.Order, approvers []*entity.Approver, submitterName string) {
	var recipients []port.SMSRecipient
	for _, approver := range approvers {
		if approver.User == nil || approver.User.Phone == "" {
			continue
		}
		recipients = append(recipients, port.SMSRecipient{
			To: approver.User.Phone,
			Message: fmt.Sprintf("New order %s pending approval from %s. %s",
				order.OrderNumber, submitterName, s.orderLink(order.ID)),
		})
	}
	s.sendBulk(ctx, "order pending", order.OrderNumber, recipients)
}

func (s *notificationServiceImpl) OrderApproved(ctx context.Context, order *entity.Order, admins []*entity.User) {
	var recipients []port.SMSRecipient
	for _, admin := range admins {
		if admin.Phone == "" {
			continue
		}
		recipients = append(recipients, port.SMSRecipient{
			To: admin.Phone,
			Message: fmt.Sprintf("Order %s has been approved. %s",
				order.OrderNumber, s.orderLink(order.ID)),
		})
	}
	s.sendBulk(ctx, "order approved", order.OrderNumber, recipients)
}

func (s *notificationServiceImpl) OrderPaid(ctx context.Context, order *entity.Order, requester *entity.User, vendorName, poNumber string) {
	if requester == nil || requester.Phone == "" {
		return
	}
	if vendorName == "" {
		vendorName = "Unknown Vendor"
	}
	if poNumber == "" {
		poNumber = "N/A"
	}
	message := fmt.Sprintf("Your order from %s has been paid. PO#: %s. %s",
		vendorName, poNumber, s.orderLink(order.ID))
	if !s.notifier.Send(ctx, requester.Phone, message) {
		s.logger.Error("Failed to send paid notification", "order_number", order.OrderNumber)
	}
}

func (s *notificationServiceImpl) RepairPending(ctx context.Context, repair *entity.Repair, approvers []*entity.Approver, submitterName string) {
	var recipients []port.SMSRecipient
	for _, approver := range approvers {
		if approver.User == nil || approver.User.Phone == "" {
			continue
		}
		recipients = append(recipients, port.SMSRecipient{
			To: approver.User.Phone,
			Message: fmt.Sprintf("New repair %s pending approval from %s. %s",
				repair.RepairNumber, submitterName, s.repairLink(repair.ID)),
		})
	}
	s.sendBulk(ctx, "repair pending", repair.RepairNumber, recipients)
}

func (s *notificationServiceImpl) RepairApproved(ctx context.Context, repair *entity.Repair, technicians []*entity.Technician) {
	var recipients []port.SMSRecipient
	for _, tech := range technicians {
		if tech.User == nil || tech.User.Phone == "" {
			continue
		}
		recipients = append(recipients, port.SMSRecipient{
			To: tech.User.Phone,
			Message: fmt.Sprintf("Repair %s approved and ready for completion. %s",
				repair.RepairNumber, s.repairLink(repair.ID)),
		})
	}
	s.sendBulk(ctx, "repair approved", repair.RepairNumber, recipients)
}

func (s *notificationServiceImpl) RepairCompleted(ctx context.Context, repair *entity.Repair, requester *entity.User) {
	if requester == nil || requester.Phone == "" {
		return
	}
	message := fmt.Sprintf("Your repair %s has been marked complete. %s",
		repair.RepairNumber, s.repairLink(repair.ID))
	if !s.notifier.Send(ctx, requester.Phone, message) {
		s.logger.Error("Failed to send completed notification", "repair_number", repair.RepairNumber)
	}
}

func (s *notificationServiceImpl) sendBulk(ctx context.Context, kind, number string, recipients []port.SMSRecipient) {
	if len(recipients) == 0 {
		return
	}
	result := s.notifier.SendBulk(ctx, recipients)
	if result.FailureCount > 0 {
		s.logger.Error("Some notifications failed",
			"kind", kind, "number", number,
			"sent", result.SuccessCount, "failed", result.FailureCount)
	} else {
		s.logger.Info("Notifications sent", "kind", kind, "number", number, "count", result.SuccessCount)
	}
}
