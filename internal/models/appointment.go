package models

import "time"

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerName  string `gorm:"size:120;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:120" json:"customer_email"`
	CustomerPhone string `gorm:"size:30" json:"customer_phone"`

	Date            string `gorm:"size:10;not null;index:idx_appointments_date_time,priority:1" json:"date"`
	Time            string `gorm:"size:5;not null;index:idx_appointments_date_time,priority:2" json:"time"`
	DurationMinutes int    `gorm:"not null;default:60" json:"duration_minutes"`

	// [StartMinute, EndMinute) derivado de Time + DurationMinutes
	StartMinute int `gorm:"not null" json:"-"`
	EndMinute   int `gorm:"not null" json:"-"`

	Notes  string `gorm:"type:text" json:"notes"`
	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason *string    `gorm:"size:255" json:"cancellation_reason"`
	CompletedAt        *time.Time `json:"completed_at"`

	// mantidos pelo ciclo de vida, não pelo gorm
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}
