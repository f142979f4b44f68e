package domain

import (
	"sort"
	"strings"
)

// ID is used across domain entities.
type ID int64

// City is one of the closed set of city codes served by the fleet.
type City string

const (
	Madrid     City = "M"
	Barcelona  City = "B"
	Toledo     City = "TO"
	Burgos     City = "BU"
	Soria      City = "SO"
	Oviedo     City = "OV"
	Pontevedra City = "PO"
)

var cityNames = map[City]string{
	Madrid:     "Madrid",
	Barcelona:  "Barcelona",
	Toledo:     "Toledo",
	Burgos:     "Burgos",
	Soria:      "Soria",
	Oviedo:     "Oviedo",
	Pontevedra: "Pontevedra",
}

// ParseCity normalizes a city code. The second result is false for codes
// outside the enumeration.
func ParseCity(s string) (City, bool) {
	c := City(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := cityNames[c]
	return c, ok
}

func (c City) Valid() bool {
	_, ok := cityNames[c]
	return ok
}

// Name returns the display name, or the raw code when unknown.
func (c City) Name() string {
	if n, ok := cityNames[c]; ok {
		return n
	}
	return string(c)
}

// Cities returns a copy of the code -> name table.
func Cities() map[string]string {
	out := make(map[string]string, len(cityNames))
	for c, n := range cityNames {
		out[string(c)] = n
	}
	return out
}

// CityCodes lists the codes in a stable order.
func CityCodes() []string {
	out := make([]string, 0, len(cityNames))
	for c := range cityNames {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID   ID     `json:"userId"`
	Username string `json:"username"`
	IsStaff  bool   `json:"isStaff"`
}
