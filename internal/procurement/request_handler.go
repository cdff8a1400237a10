package procurement

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateRequestRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Reason    string  `json:"reason"`
}

type RequestResponse struct {
	ID            uint    `json:"id"`
	RequestNumber string  `json:"request_number"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      float64 `json:"quantity"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	RequestedBy   uint    `json:"requested_by"`
	ApprovedBy    *uint   `json:"approved_by"`
	CreatedAt     string  `json:"created_at"`
}

func toRequestResponse(r *models.PurchaseRequest) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		ProductID:     r.ProductID,
		ProductName:   r.Product.Name,
		Quantity:      r.Quantity,
		Reason:        r.Reason,
		Status:        string(r.Status),
		RequestedBy:   r.RequestedBy,
		ApprovedBy:    r.ApprovedBy,
		CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/procurement/requests
func CreateRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		userID, _, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var request models.PurchaseRequest
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := sequence.Next(tx, sequence.PrefixPurchaseRequest, time.Now().Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Talep numarası üretilemedi")
			}

			request = models.PurchaseRequest{
				RequestNumber: number,
				ProductID:     body.ProductID,
				Quantity:      body.Quantity,
				Reason:        body.Reason,
				Status:        models.PurchaseRequestPending,
				RequestedBy:   userID,
			}
			if err := tx.Create(&request).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Talep oluşturulamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}

		request.Product = product
		return response.Created(c, toRequestResponse(&request))
	}
}

// GET /api/procurement/requests
func ListRequestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.PurchaseRequest{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}

		var total int64
		q.Count(&total)

		var requests []models.PurchaseRequest
		if err := q.Preload("Product").Order("id DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		resp := make([]RequestResponse, 0, len(requests))
		for i := range requests {
			resp = append(resp, toRequestResponse(&requests[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// PUT /api/procurement/requests/:id/approve
func ApproveRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return transitionRequest(c, models.PurchaseRequestApproved)
	}
}

// PUT /api/procurement/requests/:id/reject
func RejectRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return transitionRequest(c, models.PurchaseRequestRejected)
	}
}

// transitionRequest: Yalnızca bekleyen talep onaylanabilir/reddedilebilir.
func transitionRequest(c *fiber.Ctx, target models.PurchaseRequestStatus) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz talep id")
	}

	userID, userName, err := getUserInfo(c)
	if err != nil {
		return err
	}

	var request models.PurchaseRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
		}

		if !request.Status.CanTransitionTo(target) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Yalnızca bekleyen talep işlenebilir; mevcut durum '%s'", request.Status))
		}

		now := time.Now()
		if err := tx.Model(&models.PurchaseRequest{}).Where("id = ?", request.ID).Updates(map[string]interface{}{
			"status":      target,
			"approved_by": userID,
			"approved_at": &now,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep güncellenemedi")
		}
		return tx.Preload("Product").First(&request, request.ID).Error
	})
	if err != nil {
		return err
	}

	_ = audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "purchase_request",
		EntityID:    request.ID,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Talep '%s' yapıldı: %s", target, request.RequestNumber),
		After:       request,
	})

	return response.OK(c, toRequestResponse(&request))
}
