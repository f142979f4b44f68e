package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "busbackend/internal/config"
	intdb "busbackend/internal/db"
	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/repositories"
)

const maxBusListLimit = 200

// BusService is the fleet registry.
type BusService struct {
	DB *sql.DB
}

func (s BusService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BusService) repo() repositories.BusRepository {
	return repositories.BusRepository{DB: s.db()}
}

// ValidateBus checks field ranges and that every row after the first holds
// exactly four seats.
func ValidateBus(spec models.BusSpec) error {
	if err := Validator().Struct(spec); err != nil {
		return validationError(err)
	}
	if (spec.Seats-spec.SeatsFirstRow)%4 != 0 {
		return domain.ValidationError{
			Field: "seats",
			Msg:   "the number of seats must be a multiple of 4 after subtracting the first row",
		}
	}
	return nil
}

func (s BusService) CreateBus(ctx context.Context, spec models.BusSpec) (models.Bus, error) {
	spec.BusID = strings.TrimSpace(spec.BusID)
	if spec.BusID == "" {
		return models.Bus{}, domain.ValidationError{Field: "bus_id", Msg: "is required"}
	}
	if err := ValidateBus(spec); err != nil {
		return models.Bus{}, err
	}

	bus := spec.ToBus(spec.BusID)
	if err := s.repo().Insert(ctx, bus); err != nil {
		if intdb.IsDuplicate(err) {
			return models.Bus{}, domain.ConflictError{Resource: "bus", Msg: "bus " + bus.BusID + " already exists", Err: err}
		}
		return models.Bus{}, domain.InternalError{Err: err}
	}
	return bus, nil
}

func (s BusService) GetBus(ctx context.Context, id string) (models.Bus, error) {
	bus, err := s.repo().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Bus{}, domain.NotFoundError{Resource: "bus", Err: err}
		}
		return models.Bus{}, domain.InternalError{Err: err}
	}
	return bus, nil
}

// ListBuses returns buses ordered by id; limit <= 0 means no limit, values
// above 200 are capped.
func (s BusService) ListBuses(ctx context.Context, limit int) ([]models.Bus, error) {
	if limit > maxBusListLimit {
		limit = maxBusListLimit
	}
	buses, err := s.repo().List(ctx, limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return buses, nil
}

// UpdateBus replaces the layout of an existing bus. The identifier never changes.
func (s BusService) UpdateBus(ctx context.Context, id string, spec models.BusSpec) (models.Bus, error) {
	id = strings.TrimSpace(id)
	spec.BusID = ""
	if err := ValidateBus(spec); err != nil {
		return models.Bus{}, err
	}

	bus := spec.ToBus(id)
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := s.repo().WithTx(tx)
		if _, err := repo.GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "bus", Err: err}
			}
			return err
		}
		return repo.Update(ctx, bus)
	})
	if err != nil {
		return models.Bus{}, wrapInternal(err)
	}
	return bus, nil
}

func (s BusService) DeleteBus(ctx context.Context, id string) error {
	n, err := s.repo().Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		if intdb.IsReferenced(err) {
			return domain.ConflictError{Resource: "bus", Msg: "bus is assigned to travels", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "bus"}
	}
	return nil
}

// wrapInternal keeps domain errors and wraps everything else as internal.
func wrapInternal(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsNotFound(err) || domain.IsValidation(err) || domain.IsConflict(err) ||
		domain.IsUnauthenticated(err) || domain.IsInvalidCredentials(err) || domain.IsForbidden(err) ||
		domain.IsInternal(err) {
		return err
	}
	return domain.InternalError{Err: err}
}
