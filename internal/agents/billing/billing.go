// Package billing provides a small pack of leaf agents for the invoicing
// branch of the process tree (9.2.x). They exist to exercise the engine
// end to end from the CLI and in tests; real deployments register their
// own domain packs the same way.
package billing

import (
	"context"
	"fmt"

	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

func descriptor(id, name string) models.CapabilityDescriptor {
	return models.CapabilityDescriptor{
		CapabilityID:             id,
		Name:                     name,
		Proficiency:              models.ProficiencyCompetent,
		ConfidenceScore:          0.85,
		Domain:                   "billing",
		ProtocolsSupported:       []string{"pipeline"},
		EstimatedDurationSeconds: 1,
	}
}

// NewInvoiceCounter counts the invoices in the billing period.
// Emits invoice_count.
func NewInvoiceCounter() *unit.Leaf {
	return unit.NewLeaf(descriptor("9.2.1.1", "Count open invoices"), nil,
		func(ctx context.Context, data map[string]any) (map[string]any, error) {
			count := 5
			if v, ok := data["invoice_count"].(int); ok {
				count = v
			}
			return map[string]any{"invoice_count": count}, nil
		})
}

// NewInvoiceTotaller prices the counted invoices at the unit rate.
// Requires invoice_count; emits total_amount.
func NewInvoiceTotaller() *unit.Leaf {
	const unitRate = 120.0
	return unit.NewLeaf(descriptor("9.2.1.2", "Total invoice amounts"), []string{"invoice_count"},
		func(ctx context.Context, data map[string]any) (map[string]any, error) {
			count, ok := toInt(data["invoice_count"])
			if !ok {
				return nil, fmt.Errorf("invoice_count %v is not a number", data["invoice_count"])
			}
			return map[string]any{"total_amount": float64(count) * unitRate}, nil
		})
}

// NewLedgerPoster posts the billing total to the ledger.
// Requires total_amount and ledger_account.
func NewLedgerPoster() *unit.Leaf {
	return unit.NewLeaf(descriptor("9.2.1.3", "Post totals to ledger"), []string{"total_amount", "ledger_account"},
		func(ctx context.Context, data map[string]any) (map[string]any, error) {
			return map[string]any{
				"posted":  true,
				"account": data["ledger_account"],
			}, nil
		})
}

// RegisterAll registers the pack's leaves in reg.
func RegisterAll(reg *registry.CapabilityRegistry) error {
	leaves := map[string]unit.TaskUnit{
		"9.2.1.1": NewInvoiceCounter(),
		"9.2.1.2": NewInvoiceTotaller(),
		"9.2.1.3": NewLedgerPoster(),
	}
	for _, id := range []string{"9.2.1.1", "9.2.1.2", "9.2.1.3"} {
		if err := reg.Register(taxonomy.ID(id), leaves[id]); err != nil {
			return fmt.Errorf("register billing pack: %w", err)
		}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
