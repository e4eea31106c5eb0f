package ports

import "context"

// NotificationOutcome describes what a notification did. Every outcome is
// acknowledged to the gateway.
type NotificationOutcome string

const (
	NotificationProcessed        NotificationOutcome = "processed"
	NotificationDuplicate        NotificationOutcome = "duplicate"
	NotificationInvalid          NotificationOutcome = "invalid"
	NotificationUnknownReference NotificationOutcome = "unknown_reference"
	NotificationForeignModule    NotificationOutcome = "foreign_module"
	NotificationGatewayError     NotificationOutcome = "gateway_error"
	NotificationStoreError       NotificationOutcome = "store_error"
)

// NotificationService reconciles local order status with the gateway
type NotificationService interface {
	// Handle processes a notification for the gateway order id ref
	Handle(ctx context.Context, ref string) NotificationOutcome
}
