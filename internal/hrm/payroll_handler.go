package hrm

import (
	"fmt"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GeneratePayrollRequest struct {
	EmployeeID    uint   `json:"employee_id" validate:"required"`
	PayMonth      int    `json:"pay_month" validate:"required,gte=1,lte=12"`
	PayYear       int    `json:"pay_year" validate:"required,gte=2000"`
	BasicSalary   string `json:"basic_salary"` // boşsa personel kartından okunur
	OvertimeHours string `json:"overtime_hours"`
	OvertimeRate  string `json:"overtime_rate"`
	Allowances    string `json:"allowances"`
	Deductions    string `json:"deductions"`
}

type PayrollResponse struct {
	ID            uint    `json:"id"`
	EmployeeID    uint    `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	PayMonth      int     `json:"pay_month"`
	PayYear       int     `json:"pay_year"`
	BasicSalary   string  `json:"basic_salary"`
	WorkingDays   int     `json:"working_days"`
	OvertimeHours string  `json:"overtime_hours"`
	OvertimeRate  string  `json:"overtime_rate"`
	OvertimePay   string  `json:"overtime_pay"`
	Allowances    string  `json:"allowances"`
	Deductions    string  `json:"deductions"`
	GrossSalary   string  `json:"gross_salary"`
	NetSalary     string  `json:"net_salary"`
	Status        string  `json:"status"`
	ApprovedBy    *uint   `json:"approved_by"`
	ApprovedAt    *string `json:"approved_at"`
}

func toPayrollResponse(p *models.Payroll) PayrollResponse {
	var approvedAt *string
	if p.ApprovedAt != nil {
		s := p.ApprovedAt.Format("2006-01-02 15:04:05")
		approvedAt = &s
	}
	return PayrollResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		EmployeeName:  p.Employee.Name,
		PayMonth:      p.PayMonth,
		PayYear:       p.PayYear,
		BasicSalary:   p.BasicSalary.StringFixed(2),
		WorkingDays:   p.WorkingDays,
		OvertimeHours: p.OvertimeHours.StringFixed(2),
		OvertimeRate:  p.OvertimeRate.StringFixed(2),
		OvertimePay:   p.OvertimePay.StringFixed(2),
		Allowances:    p.Allowances.StringFixed(2),
		Deductions:    p.Deductions.StringFixed(2),
		GrossSalary:   p.GrossSalary.StringFixed(2),
		NetSalary:     p.NetSalary.StringFixed(2),
		Status:        string(p.Status),
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    approvedAt,
	}
}

// İsteğe bağlı ondalık alan; boş string sıfır sayılır.
func parseOptionalDecimal(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s negatif olmayan bir sayı olmalı", field))
	}
	return d, nil
}

// POST /api/hrm/payroll/generate
// Temel maaş istekte verilmemişse personel kartından okunur.
func GeneratePayrollHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GeneratePayrollRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		overtimeHours, err := parseOptionalDecimal("overtime_hours", body.OvertimeHours)
		if err != nil {
			return err
		}
		overtimeRate, err := parseOptionalDecimal("overtime_rate", body.OvertimeRate)
		if err != nil {
			return err
		}
		allowances, err := parseOptionalDecimal("allowances", body.Allowances)
		if err != nil {
			return err
		}
		deductions, err := parseOptionalDecimal("deductions", body.Deductions)
		if err != nil {
			return err
		}

		var employee models.Employee
		if err := database.DB.First(&employee, "id = ? AND is_active = ?", body.EmployeeID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		basicSalary := employee.BasicSalary
		if body.BasicSalary != "" {
			basicSalary, err = parseOptionalDecimal("basic_salary", body.BasicSalary)
			if err != nil {
				return err
			}
		}

		var payroll *models.Payroll
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			payroll, txErr = GeneratePayroll(tx, GeneratePayrollInput{
				EmployeeID:    body.EmployeeID,
				PayMonth:      body.PayMonth,
				PayYear:       body.PayYear,
				BasicSalary:   basicSalary,
				OvertimeHours: overtimeHours,
				OvertimeRate:  overtimeRate,
				Allowances:    allowances,
				Deductions:    deductions,
			})
			return txErr
		})
		if err != nil {
			return err
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payroll",
				EntityID:    payroll.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Bordro üretildi: %s, %d/%d, net %s", employee.Name, body.PayMonth, body.PayYear, payroll.NetSalary.StringFixed(2)),
				After:       payroll,
			})
		}

		return response.Created(c, toPayrollResponse(payroll))
	}
}

// POST /api/hrm/payroll/:id/approve
func ApprovePayrollHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bordro id")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var payroll *models.Payroll
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			payroll, txErr = ApprovePayroll(tx, uint(id), userID)
			return txErr
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "payroll",
			EntityID:    payroll.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Bordro onaylandı: %s, %d/%d", payroll.Employee.Name, payroll.PayMonth, payroll.PayYear),
			After:       payroll,
		})

		return response.OK(c, toPayrollResponse(payroll))
	}
}

// GET /api/hrm/payroll
func ListPayrollHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Payroll{})
		if eid := c.QueryInt("employee_id", 0); eid > 0 {
			q = q.Where("employee_id = ?", eid)
		}
		if m := c.QueryInt("pay_month", 0); m >= 1 && m <= 12 {
			q = q.Where("pay_month = ?", m)
		}
		if y := c.QueryInt("pay_year", 0); y > 0 {
			q = q.Where("pay_year = ?", y)
		}
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}

		var total int64
		q.Count(&total)

		var payrolls []models.Payroll
		if err := q.Preload("Employee").
			Order("pay_year DESC, pay_month DESC, employee_id").
			Limit(limit).Offset(offset).Find(&payrolls).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bordrolar listelenemedi")
		}

		resp := make([]PayrollResponse, 0, len(payrolls))
		for i := range payrolls {
			resp = append(resp, toPayrollResponse(&payrolls[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}
