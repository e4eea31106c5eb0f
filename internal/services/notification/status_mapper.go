package notification

import (
	"strings"

	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// StatusMapper translates gateway transaction statuses to local order statuses
type StatusMapper struct {
	mapping     map[domain.TransactionStatus]string
	errorStatus string
}

// NewStatusMapper creates a mapper from the configured status table
func NewStatusMapper(cfg config.StatusConfig) *StatusMapper {
	return &StatusMapper{mapping: cfg.Mapping, errorStatus: cfg.ErrorStatus}
}

// Map returns the local status for raw. Statuses the gateway may add later,
// or that have no mapping, resolve to the error status.
func (m *StatusMapper) Map(raw string) string {
	status, err := domain.ToTransactionStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return m.errorStatus
	}
	if local, ok := m.mapping[status]; ok && local != "" {
		return local
	}
	return m.errorStatus
}
