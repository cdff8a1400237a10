package hrm

import (
	"fmt"
	"strings"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateEmployeeRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Department  string `json:"department" validate:"required"`
	Position    string `json:"position"`
	BasicSalary string `json:"basic_salary" validate:"required"`
	HireDate    string `json:"hire_date"` // "2025-12-09"; boşsa bugün
}

type UpdateEmployeeRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Department  *string `json:"department"`
	Position    *string `json:"position"`
	BasicSalary *string `json:"basic_salary"`
}

type EmployeeResponse struct {
	ID             uint   `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	BasicSalary    string `json:"basic_salary"`
	HireDate       string `json:"hire_date"`
	IsActive       bool   `json:"is_active"`
}

func toEmployeeResponse(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeNumber: e.EmployeeNumber,
		Name:           e.Name,
		Email:          e.Email,
		Phone:          e.Phone,
		Department:     e.Department,
		Position:       e.Position,
		BasicSalary:    e.BasicSalary.StringFixed(2),
		HireDate:       e.HireDate.Format("2006-01-02"),
		IsActive:       e.IsActive,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// POST /api/hrm/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		basicSalary, err := decimal.NewFromString(body.BasicSalary)
		if err != nil || basicSalary.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "basic_salary pozitif bir sayı olmalı")
		}

		hireDate := time.Now()
		if body.HireDate != "" {
			d, err := time.Parse("2006-01-02", body.HireDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "hire_date formatı 'YYYY-MM-DD' olmalı")
			}
			hireDate = d
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))

		var count int64
		database.DB.Model(&models.Employee{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email ile kayıtlı personel var")
		}

		var employee models.Employee
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := sequence.Next(tx, sequence.PrefixEmployee, hireDate.Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Personel numarası üretilemedi")
			}

			employee = models.Employee{
				EmployeeNumber: number,
				Name:           body.Name,
				Email:          email,
				Phone:          body.Phone,
				Department:     body.Department,
				Position:       body.Position,
				BasicSalary:    basicSalary,
				HireDate:       hireDate,
				IsActive:       true,
			}
			if err := tx.Create(&employee).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Personel oluşturulamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "employee",
				EntityID:    employee.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Personel eklendi: %s (%s)", employee.Name, employee.EmployeeNumber),
				After:       employee,
			})
		}

		return response.Created(c, toEmployeeResponse(&employee))
	}
}

// GET /api/hrm/employees
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Employee{})
		if d := c.Query("department"); d != "" {
			q = q.Where("department = ?", d)
		}
		// Varsayılan: yalnızca aktif personel
		if c.Query("include_inactive") != "true" {
			q = q.Where("is_active = ?", true)
		}

		var total int64
		q.Count(&total)

		var employees []models.Employee
		if err := q.Order("name").Limit(limit).Offset(offset).Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listelenemedi")
		}

		resp := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			resp = append(resp, toEmployeeResponse(&employees[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/hrm/employees/:id
func GetEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel id")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		return response.OK(c, toEmployeeResponse(&employee))
	}
}

// PUT /api/hrm/employees/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel id")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}
		if !employee.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Pasif personel güncellenemez")
		}
		before := employee

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			employee.Name = *body.Name
		}
		if body.Phone != nil {
			employee.Phone = *body.Phone
		}
		if body.Department != nil {
			employee.Department = *body.Department
		}
		if body.Position != nil {
			employee.Position = *body.Position
		}
		if body.BasicSalary != nil {
			salary, err := decimal.NewFromString(*body.BasicSalary)
			if err != nil || salary.LessThanOrEqual(decimal.Zero) {
				return fiber.NewError(fiber.StatusBadRequest, "basic_salary pozitif bir sayı olmalı")
			}
			employee.BasicSalary = salary
		}

		if err := database.DB.Save(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel güncellenemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "employee",
				EntityID:    employee.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Personel güncellendi: %s", employee.Name),
				Before:      before,
				After:       employee,
			})
		}

		return response.OK(c, toEmployeeResponse(&employee))
	}
}

// DELETE /api/hrm/employees/:id
// Personel silinmez; IsActive=false yapılır (bordro/devam geçmişi korunur).
func DeactivateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel id")
		}

		var employee models.Employee
		if err := database.DB.First(&employee, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}
		if !employee.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Personel zaten pasif")
		}

		if err := database.DB.Model(&employee).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel pasifleştirilemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "employee",
				EntityID:    employee.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Personel pasifleştirildi: %s", employee.Name),
				Before:      employee,
			})
		}

		return response.OK(c, fiber.Map{"message": "Personel pasifleştirildi"})
	}
}
