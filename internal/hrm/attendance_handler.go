package hrm

import (
	"time"

	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AttendanceRequest struct {
	EmployeeID uint `json:"employee_id" validate:"required"`
}

type AttendanceResponse struct {
	ID           uint    `json:"id"`
	EmployeeID   uint    `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in"`
	CheckOut     *string `json:"check_out"`
	Status       string  `json:"status"`
}

func toAttendanceResponse(a *models.Attendance) AttendanceResponse {
	var checkIn, checkOut *string
	if a.CheckIn != nil {
		s := a.CheckIn.Format("2006-01-02 15:04:05")
		checkIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format("2006-01-02 15:04:05")
		checkOut = &s
	}
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.Employee.Name,
		Date:         a.Date.Format("2006-01-02"),
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Status:       string(a.Status),
	}
}

// POST /api/hrm/attendance/checkin
func CheckInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AttendanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		att, err := CheckIn(database.DB, body.EmployeeID)
		if err != nil {
			return err
		}

		return response.OK(c, toAttendanceResponse(att))
	}
}

// POST /api/hrm/attendance/checkout
func CheckOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AttendanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		att, err := CheckOut(database.DB, body.EmployeeID)
		if err != nil {
			return err
		}

		return response.OK(c, toAttendanceResponse(att))
	}
}

// GET /api/hrm/attendance
// Filtreler: employee_id, date ("YYYY-MM-DD"), month + year
func ListAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Attendance{})
		if eid := c.QueryInt("employee_id", 0); eid > 0 {
			q = q.Where("employee_id = ?", eid)
		}
		if d := c.Query("date"); d != "" {
			day, err := time.Parse("2006-01-02", d)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date formatı 'YYYY-MM-DD' olmalı")
			}
			q = q.Where("date = ?", day)
		} else if month := c.QueryInt("month", 0); month >= 1 && month <= 12 {
			year := c.QueryInt("year", time.Now().Year())
			monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			q = q.Where("date >= ? AND date < ?", monthStart, monthStart.AddDate(0, 1, 0))
		}

		var total int64
		q.Count(&total)

		var records []models.Attendance
		if err := q.Preload("Employee").
			Order("date DESC, employee_id").Limit(limit).Offset(offset).
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Devam kayıtları listelenemedi")
		}

		resp := make([]AttendanceResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toAttendanceResponse(&records[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}
