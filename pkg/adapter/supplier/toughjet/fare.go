// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package toughjet

import (
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	percent = decimal.NewFromInt(100)
)

// Fare computes the final fare of a ToughJet offer as
// base * (1 + tax/100) * (1 - discount/100), rounded half away from
// zero to model.FareScale fraction digits.
// For example, base 100 with 20% tax and 10% discount costs 108.00.
func Fare(base, tax, discount decimal.Decimal) decimal.Decimal {
	return base.
		Mul(one.Add(tax.Div(percent))).
		Mul(one.Sub(discount.Div(percent))).
		Round(model.FareScale)
}
