package config

import (
	"fmt"
	"os"

	"github.com/kevin07696/checkout-bridge/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultStatusMapping returns the built-in gateway status to local order status table
func DefaultStatusMapping() map[domain.TransactionStatus]string {
	return map[domain.TransactionStatus]string{
		domain.TransactionStatusInitialized:     "awaiting_payment",
		domain.TransactionStatusDeclined:        "canceled",
		domain.TransactionStatusCancelled:       "canceled",
		domain.TransactionStatusCompleted:       "payment_accepted",
		domain.TransactionStatusExpired:         "canceled",
		domain.TransactionStatusUncleared:       "payment_uncleared",
		domain.TransactionStatusRefunded:        "refunded",
		domain.TransactionStatusPartialRefunded: "partial_refunded",
		domain.TransactionStatusVoid:            "canceled",
		domain.TransactionStatusChargedBack:     "chargeback",
		domain.TransactionStatusShipped:         "shipped",
	}
}

// statusMappingFile is the YAML layout of STATUS_MAPPING_FILE:
//
//	error_status: payment_error
//	shipped_trigger: shipped
//	statuses:
//	  completed: payment_accepted
//	  uncleared: on_hold
type statusMappingFile struct {
	ErrorStatus    string            `yaml:"error_status"`
	ShippedTrigger string            `yaml:"shipped_trigger"`
	Statuses       map[string]string `yaml:"statuses"`
}

// LoadStatusMapping reads status overrides from a YAML file.
// Unknown gateway statuses are rejected so typos do not silently fall back
// to the error status.
func LoadStatusMapping(path string) (StatusConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StatusConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	var file statusMappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return StatusConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}

	mapping := make(map[domain.TransactionStatus]string, len(file.Statuses))
	for raw, local := range file.Statuses {
		status, err := domain.ToTransactionStatus(raw)
		if err != nil {
			return StatusConfig{}, fmt.Errorf("%s: %w", path, err)
		}
		if local == "" {
			return StatusConfig{}, fmt.Errorf("%s: empty local status for %q", path, raw)
		}
		mapping[status] = local
	}

	return StatusConfig{
		Mapping:              mapping,
		ErrorStatus:          file.ErrorStatus,
		ShippedTriggerStatus: file.ShippedTrigger,
		MappingFile:          path,
	}, nil
}

// Merge returns a copy of s with every non-empty field of overrides applied
func (s StatusConfig) Merge(overrides StatusConfig) StatusConfig {
	merged := StatusConfig{
		Mapping:              make(map[domain.TransactionStatus]string, len(s.Mapping)),
		ErrorStatus:          s.ErrorStatus,
		ShippedTriggerStatus: s.ShippedTriggerStatus,
		MappingFile:          s.MappingFile,
	}
	for k, v := range s.Mapping {
		merged.Mapping[k] = v
	}
	for k, v := range overrides.Mapping {
		merged.Mapping[k] = v
	}
	if overrides.ErrorStatus != "" {
		merged.ErrorStatus = overrides.ErrorStatus
	}
	if overrides.ShippedTriggerStatus != "" {
		merged.ShippedTriggerStatus = overrides.ShippedTriggerStatus
	}
	if overrides.MappingFile != "" {
		merged.MappingFile = overrides.MappingFile
	}
	return merged
}
