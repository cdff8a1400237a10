package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// Attendance: Günlük devam kaydı. Personel başına gün başına tek satır;
// CheckOut ancak CheckIn varsa set edilebilir.
type Attendance struct {
	ID         uint      `gorm:"primaryKey"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_employee_date"`
	Employee   Employee
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_employee_date"`
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     AttendanceStatus `gorm:"size:20;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
