package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ReservationRepository is the storage collaborator for the reservations
// table. It performs no validation of its own.
type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	Update(ctx context.Context, id uint, r models.Reservation) (int64, error)
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context) ([]models.Reservation, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

type gormReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &gormReservationRepository{db: db}
}

func (r *gormReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	res.ID = 0
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("ReservationRepository.Create: %w", err)
	}
	return nil
}

// Update replaces every mutable column of the row with the given id and
// returns how many rows matched. A missing id is not an error.
func (r *gormReservationRepository) Update(ctx context.Context, id uint, res models.Reservation) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_name":    res.CustomerName,
			"phone":            res.Phone,
			"reservation_date": res.ReservationDate,
			"reservation_time": res.ReservationTime,
			"party_size":       res.PartySize,
			"special_requests": res.SpecialRequests,
		})
	if tx.Error != nil {
		return 0, fmt.Errorf("ReservationRepository.Update: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *gormReservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ReservationRepository.FindByID: %w", err)
	}
	return &res, nil
}

// List returns every reservation, latest date and time first.
func (r *gormReservationRepository) List(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.db.WithContext(ctx).
		Order("reservation_date DESC").
		Order("reservation_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.List: %w", err)
	}
	return list, nil
}

func (r *gormReservationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reservation{}, id).Error; err != nil {
		return fmt.Errorf("ReservationRepository.Delete: %w", err)
	}
	return nil
}

// DeleteAll empties the table. Used by the seed loader only.
func (r *gormReservationRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Reservation{})
	if tx.Error != nil {
		return 0, fmt.Errorf("ReservationRepository.DeleteAll: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}
