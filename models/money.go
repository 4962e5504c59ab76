package models

import "fmt"

// Money is the three-denomination display form of a marketplace price.
// The canonical form is a single non-negative amount of copper units;
// conversion between the two lives in the currency package.
//
// A Money value is valid when Gold >= 0 and Silver and Copper are both in
// [0, 99].
type Money struct {
	Gold   int64 `json:"gold"`
	Silver int64 `json:"silver"`
	Copper int64 `json:"copper"`
}

// String renders the amount in the conventional "Xg Ys Zc" form.
func (m Money) String() string {
	return fmt.Sprintf("%dg %ds %dc", m.Gold, m.Silver, m.Copper)
}
