// Package currency converts between the marketplace's three-denomination
// display prices and the canonical copper-unit amounts the backend stores.
//
// One gold is 100 silver; one silver is 100 copper. The canonical form of
// every price is a single non-negative copper amount, so
//
//	units = gold*10000 + silver*100 + copper
//
// and the inverse uses integer division. Conversion is exact and lossless
// for every non-negative amount.
package currency

import (
	"github.com/ashvale/go-craft-market/models"
)

// Copper units per display denomination.
const (
	CopperPerSilver int64 = 100
	CopperPerGold   int64 = 10000
)

// ToUnits converts a display amount to canonical copper units.
//
// Returns [ErrOutOfRange] unless 0 <= Silver <= 99, 0 <= Copper <= 99 and
// Gold >= 0.
func ToUnits(m models.Money) (int64, error) {
	if m.Gold < 0 || m.Silver < 0 || m.Silver > 99 || m.Copper < 0 || m.Copper > 99 {
		return 0, ErrOutOfRange
	}

	return m.Gold*CopperPerGold + m.Silver*CopperPerSilver + m.Copper, nil
}

// FromUnits converts a canonical copper amount to its display form.
//
// Returns [ErrNegative] if units < 0. The result always satisfies the
// display invariant, so ToUnits(FromUnits(u)) == u for every u >= 0.
func FromUnits(units int64) (models.Money, error) {
	if units < 0 {
		return models.Money{}, ErrNegative
	}

	return models.Money{
		Gold:   units / CopperPerGold,
		Silver: (units % CopperPerGold) / CopperPerSilver,
		Copper: units % CopperPerSilver,
	}, nil
}
