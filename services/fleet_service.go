package services

import "taxifleet/repositories"

// The FleetService interface provides the home-page overview: entity counts
// plus the per-session visit counter.
type FleetService interface {
	Overview(sessionToken string) (*FleetOverview, error)
}

// FleetOverview is the home-page payload.
type FleetOverview struct {
	NumDrivers       int64 `json:"num_drivers"`
	NumCars          int64 `json:"num_cars"`
	NumManufacturers int64 `json:"num_manufacturers"`
	NumVisits        int   `json:"num_visits"`
}

type fleetService struct {
	drivers       repositories.DriverRepository
	cars          repositories.CarRepository
	manufacturers repositories.ManufacturerRepository
	sessions      repositories.SessionRepository
}

var _ FleetService = (*fleetService)(nil)

// NewFleetService creates a new FleetService instance
func NewFleetService(
	drivers repositories.DriverRepository,
	cars repositories.CarRepository,
	manufacturers repositories.ManufacturerRepository,
	sessions repositories.SessionRepository,
) FleetService {
	return &fleetService{drivers: drivers, cars: cars, manufacturers: manufacturers, sessions: sessions}
}

// Overview counts each entity type and increments the caller's session visit
// counter in one pass.
func (s *fleetService) Overview(sessionToken string) (*FleetOverview, error) {
	numDrivers, err := s.drivers.CountMatching("")
	if err != nil {
		return nil, err
	}
	numCars, err := s.cars.CountMatching("")
	if err != nil {
		return nil, err
	}
	numManufacturers, err := s.manufacturers.CountMatching("")
	if err != nil {
		return nil, err
	}
	visits, err := s.sessions.IncrementVisits(sessionToken)
	if err != nil {
		return nil, err
	}
	return &FleetOverview{
		NumDrivers:       numDrivers,
		NumCars:          numCars,
		NumManufacturers: numManufacturers,
		NumVisits:        visits,
	}, nil
}
