package repository

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"slotly/cmd/internal/domain/entity"
)

var activeStatuses = []entity.Status{entity.StatusPending, entity.StatusAccepted}

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment %s: %w", id, err)
	}
	return &appt, nil
}

// IsSlotTaken reports whether a pending or accepted appointment other than
// excludeID holds the slot. Pass an empty excludeID to check every record.
func (a *DefaultAppointmentRepository) IsSlotTaken(ctx context.Context, slot, excludeID string) (bool, error) {
	q := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("time = ?", slot).
		Where("status IN ?", activeStatuses)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slot %q: %w", slot, err)
	}
	return count > 0, nil
}

// FindAll returns every appointment in insertion order.
func (a *DefaultAppointmentRepository) FindAll(ctx context.Context) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.WithContext(ctx).Order("seq asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByRequesterID(ctx context.Context, userID string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Order("seq asc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(ctx context.Context, appointment *entity.Appointment) error {
	return a.db.WithContext(ctx).Create(appointment).Error
}

// UpdateStatus writes only the status column; requester fields are never
// touched after creation.
func (a *DefaultAppointmentRepository) UpdateStatus(ctx context.Context, appointment *entity.Appointment, status entity.Status) error {
	err := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ?", appointment.ID).
		Update("status", status).Error
	if err != nil {
		return err
	}
	appointment.Status = status
	return nil
}

func (a *DefaultAppointmentRepository) Delete(ctx context.Context, appointment *entity.Appointment) error {
	return a.db.WithContext(ctx).
		Where("id = ?", appointment.ID).
		Delete(&entity.Appointment{}).Error
}
