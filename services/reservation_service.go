package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validation"
)

var (
	ErrNotFound    = errors.New("Reservation not found")
	ErrPersistence = errors.New("reservation store unavailable")
)

// Result is the uniform outcome of a write operation. Error holds a
// user-safe message only; the underlying cause goes to the error log.
type Result struct {
	Success bool                   `json:"success"`
	ID      uint                   `json:"id,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Fields  validation.FieldErrors `json:"fields,omitempty"`
}

// ReadFailureFunc receives read errors that List hides from its caller.
type ReadFailureFunc func(op string, err error)

type ReservationService struct {
	repo repository.ReservationRepository

	// OnReadFailure is called whenever List swallows a store error.
	OnReadFailure ReadFailureFunc
}

func NewReservationService(repo repository.ReservationRepository) *ReservationService {
	return &ReservationService{repo: repo}
}

func (s *ReservationService) Create(ctx context.Context, draft validation.Draft) Result {
	res, fieldErrs := validation.Validate(draft)
	if fieldErrs != nil {
		return Result{Success: false, Error: "Invalid reservation", Fields: fieldErrs}
	}

	if err := s.repo.Create(ctx, &res); err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to create reservation")
		return Result{Success: false, Error: "Failed to create reservation"}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"id":         res.ID,
		"party_size": res.PartySize,
	}).Info("Reservation created")
	return Result{Success: true, ID: res.ID}
}

// Update replaces the record with the given id. An id that matches nothing
// still reports success.
func (s *ReservationService) Update(ctx context.Context, id uint, draft validation.Draft) Result {
	res, fieldErrs := validation.Validate(draft)
	if fieldErrs != nil {
		return Result{Success: false, ID: id, Error: "Invalid reservation", Fields: fieldErrs}
	}

	matched, err := s.repo.Update(ctx, id, res)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("id", id).Error("Failed to update reservation")
		return Result{Success: false, ID: id, Error: "Failed to update reservation"}
	}
	if matched == 0 {
		// TODO: decide with product whether this should become a not-found result.
		utils.InfoLogger.WithField("id", id).Warn("Update matched no reservation")
	}

	utils.InfoLogger.WithField("id", id).Info("Reservation updated")
	return Result{Success: true, ID: id}
}

func (s *ReservationService) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		utils.ErrorLogger.WithError(err).WithField("id", id).Error("Failed to fetch reservation")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return res, nil
}

// List never fails from the caller's point of view: a store error yields an
// empty slice and is reported through OnReadFailure.
func (s *ReservationService) List(ctx context.Context) []models.Reservation {
	list, err := s.repo.List(ctx)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to fetch reservations")
		if s.OnReadFailure != nil {
			s.OnReadFailure("list", err)
		}
		return []models.Reservation{}
	}
	return list
}

func (s *ReservationService) Delete(ctx context.Context, id uint) Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		utils.ErrorLogger.WithError(err).WithField("id", id).Error("Failed to delete reservation")
		return Result{Success: false, ID: id, Error: "Failed to delete reservation"}
	}

	utils.InfoLogger.WithField("id", id).Info("Reservation deleted")
	return Result{Success: true, ID: id}
}

// Seed replaces the whole table with the given drafts. Used by cmd/seed.
func (s *ReservationService) Seed(ctx context.Context, drafts []validation.Draft) (int, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear reservations: %w", err)
	}
	utils.InfoLogger.WithField("removed", removed).Info("Existing reservations cleared")

	inserted := 0
	for i, d := range drafts {
		result := s.Create(ctx, d)
		if !result.Success {
			if result.Fields != nil {
				return inserted, fmt.Errorf("seed row %d: %w", i, result.Fields)
			}
			return inserted, fmt.Errorf("seed row %d: %s", i, result.Error)
		}
		inserted++
	}
	return inserted, nil
}
