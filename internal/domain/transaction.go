package domain

import "fmt"

// TransactionStatus is the status string the gateway reports for a transaction
type TransactionStatus string

// remember to add new statuses to validTransactionStatuses
const (
	TransactionStatusInitialized     TransactionStatus = "initialized"
	TransactionStatusDeclined        TransactionStatus = "declined"
	TransactionStatusCancelled       TransactionStatus = "cancelled"
	TransactionStatusCompleted       TransactionStatus = "completed"
	TransactionStatusExpired         TransactionStatus = "expired"
	TransactionStatusUncleared       TransactionStatus = "uncleared"
	TransactionStatusRefunded        TransactionStatus = "refunded"
	TransactionStatusPartialRefunded TransactionStatus = "partial_refunded"
	TransactionStatusVoid            TransactionStatus = "void"
	TransactionStatusChargedBack     TransactionStatus = "chargedback"
	TransactionStatusShipped         TransactionStatus = "shipped"
)

var validTransactionStatuses = map[TransactionStatus]struct{}{
	TransactionStatusInitialized:     {},
	TransactionStatusDeclined:        {},
	TransactionStatusCancelled:       {},
	TransactionStatusCompleted:       {},
	TransactionStatusExpired:         {},
	TransactionStatusUncleared:       {},
	TransactionStatusRefunded:        {},
	TransactionStatusPartialRefunded: {},
	TransactionStatusVoid:            {},
	TransactionStatusChargedBack:     {},
	TransactionStatusShipped:         {},
}

// ToTransactionStatus validates a raw gateway status string
func ToTransactionStatus(s string) (TransactionStatus, error) {
	status := TransactionStatus(s)
	if _, ok := validTransactionStatuses[status]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// TransactionStatuses lists every known gateway status
func TransactionStatuses() []TransactionStatus {
	return []TransactionStatus{
		TransactionStatusInitialized,
		TransactionStatusDeclined,
		TransactionStatusCancelled,
		TransactionStatusCompleted,
		TransactionStatusExpired,
		TransactionStatusUncleared,
		TransactionStatusRefunded,
		TransactionStatusPartialRefunded,
		TransactionStatusVoid,
		TransactionStatusChargedBack,
		TransactionStatusShipped,
	}
}

// TransactionType selects how the gateway processes an order request
type TransactionType string

const (
	TransactionTypeRedirect TransactionType = "redirect" // shopper goes to the hosted payment page
	TransactionTypeDirect   TransactionType = "direct"   // processed without a redirect (components, tokens)
)
