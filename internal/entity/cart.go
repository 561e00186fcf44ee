package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is a client-owned, ephemeral cart entry. PromoPrice, when set,
// wins over UnitPrice.
type CartLine struct {
	ProductID  string           `json:"productId"`
	Name       string           `json:"name"`
	Variant    string           `json:"variant,omitempty"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	PromoPrice *decimal.Decimal `json:"promoPrice,omitempty"`
}

func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.PromoPrice != nil {
		return *l.PromoPrice
	}
	return l.UnitPrice
}

// CheckoutSnapshotVersion is bumped whenever the serialized snapshot
// layout changes; MigrateCheckoutSnapshot upgrades older payloads.
const CheckoutSnapshotVersion = 2

// CheckoutSnapshot is the explicit, versioned carrier of checkout state.
// The storefront serializes it between steps instead of relying on
// ambient client-side storage.
type CheckoutSnapshot struct {
	SchemaVersion int        `json:"schemaVersion"`
	Lines         []CartLine `json:"lines"`
	CouponCode    string     `json:"couponCode,omitempty"`
	RegionCode    string     `json:"regionCode,omitempty"`
	Step          string     `json:"step,omitempty"`
}

// MigrateCheckoutSnapshot parses a serialized snapshot of any known
// schema version and upgrades it to the current one. Version 1 carried
// the coupon under "coupon" and had no region.
func MigrateCheckoutSnapshot(raw []byte) (*CheckoutSnapshot, error) {
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	switch probe.SchemaVersion {
	case CheckoutSnapshotVersion:
		var s CheckoutSnapshot
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse snapshot v%d: %w", probe.SchemaVersion, err)
		}
		return &s, nil
	case 1, 0:
		var v1 struct {
			Lines  []CartLine `json:"lines"`
			Coupon string     `json:"coupon"`
			Step   string     `json:"step"`
		}
		if err := json.Unmarshal(raw, &v1); err != nil {
			return nil, fmt.Errorf("parse snapshot v1: %w", err)
		}
		return &CheckoutSnapshot{
			SchemaVersion: CheckoutSnapshotVersion,
			Lines:         v1.Lines,
			CouponCode:    v1.Coupon,
			Step:          v1.Step,
		}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot schema version %d", probe.SchemaVersion)
	}
}
