package models

// Bus mirrors booking_bus.
type Bus struct {
	BusID                string `json:"bus_id"`
	Seats                int    `json:"seats"`
	SeatsFirstRow        int    `json:"seats_first_row"`
	SeatsReducedMobility int    `json:"seats_reduced_mobility"`
}

// BusSpec is the writable part of a bus. BusID is ignored on update.
type BusSpec struct {
	BusID                string `json:"bus_id" validate:"omitempty,busid"`
	Seats                int    `json:"seats" validate:"gte=8,lte=72"`
	SeatsFirstRow        int    `json:"seats_first_row" validate:"gte=1,lte=4"`
	SeatsReducedMobility int    `json:"seats_reduced_mobility" validate:"gte=0,lte=2,ltefield=Seats"`
}

func (s BusSpec) ToBus(id string) Bus {
	return Bus{
		BusID:                id,
		Seats:                s.Seats,
		SeatsFirstRow:        s.SeatsFirstRow,
		SeatsReducedMobility: s.SeatsReducedMobility,
	}
}
