package utils

import "busbackend/internal/domain"

const (
	// DefaultFare applies to city pairs missing from the table.
	DefaultFare int64 = 30
	// LargeFamilyDiscountPct is applied to customers with a large-family card.
	LargeFamilyDiscountPct int64 = 20
)

type cityPair struct{ a, b domain.City }

// Base fares in euros; routes are symmetric.
var fares = map[cityPair]int64{
	{domain.Madrid, domain.Barcelona}:  45,
	{domain.Madrid, domain.Toledo}:     10,
	{domain.Madrid, domain.Burgos}:     22,
	{domain.Madrid, domain.Soria}:      18,
	{domain.Madrid, domain.Oviedo}:     35,
	{domain.Madrid, domain.Pontevedra}: 40,
	{domain.Barcelona, domain.Soria}:   30,
	{domain.Barcelona, domain.Burgos}:  38,
	{domain.Burgos, domain.Oviedo}:     20,
	{domain.Burgos, domain.Soria}:      12,
	{domain.Oviedo, domain.Pontevedra}: 25,
}

// ComputeFare returns the ticket price for a route. Unknown pairs fall back
// to DefaultFare; same-city routes cost nothing.
func ComputeFare(from, to domain.City, largeFamily bool) int64 {
	if from == to {
		return 0
	}
	price, ok := fares[cityPair{from, to}]
	if !ok {
		price, ok = fares[cityPair{to, from}]
	}
	if !ok {
		price = DefaultFare
	}
	if largeFamily {
		price -= price * LargeFamilyDiscountPct / 100
	}
	return price
}
