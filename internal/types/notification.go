package types

import (
	"fmt"

	"github.com/samber/lo"
)

// NotificationType tags a real-time notification delivered to a user's channel
type NotificationType string

const (
	NotificationTypeMessage       NotificationType = "notification_message"
	NotificationTypeSyncStatus    NotificationType = "sync_status"
	NotificationTypeInvoiceUpdate NotificationType = "invoice_update"
)

func (t NotificationType) String() string {
	return string(t)
}

func (t NotificationType) Validate() error {
	allowed := []NotificationType{
		NotificationTypeMessage,
		NotificationTypeSyncStatus,
		NotificationTypeInvoiceUpdate,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid notification type: %s", t)
	}
	return nil
}
