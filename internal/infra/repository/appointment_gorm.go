package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *AppointmentGormRepository) Insert(
	ctx context.Context,
	ap *models.Appointment,
) (*models.Appointment, error) {

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		return nil, mapWriteError("insert appointment", err)
	}
	return ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	id string,
	ap *models.Appointment,
) (*models.Appointment, error) {

	ap.ID = id

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Select("*").
		Omit("created_at").
		Updates(ap)
	if res.Error != nil {
		return nil, mapWriteError("update appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *AppointmentGormRepository) Remove(
	ctx context.Context,
	id string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return fmt.Errorf("remove appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Query(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if name := strings.TrimSpace(f.CustomerName); name != "" {
		q = q.Where("LOWER(customer_name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if f.Date != "" {
		q = q.Where(`"date" = ?`, f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.StartDate != "" {
		q = q.Where(`"date" >= ?`, f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where(`"date" <= ?`, f.EndDate)
	}
	if f.ActiveOnly {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}

	apps := make([]models.Appointment, 0)
	if err := q.
		Order(`"date" ASC`).
		Order(`"time" ASC`).
		Order("id ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// mapWriteError turns constraint violations into domain errors. The date
// lock normally keeps the overlap constraint from ever firing.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrSlotUnavailable)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateID)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
