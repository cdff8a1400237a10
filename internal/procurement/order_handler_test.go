package procurement_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/procurement"
	"fabrika-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp: JWT yerine locals'ı doğrudan dolduran bir test uygulaması.
func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	user := models.User{
		Name:         "Test Yöneticisi",
		Email:        "test@example.com",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserRoleKey, user.Role)
		return c.Next()
	})
	app.Post("/api/procurement/orders/:id/receive", procurement.ReceiveOrderHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestReceiveOrderEndpoint(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := newTestApp(t, db)
	order := seedConfirmedOrder(t, db)

	status, body := postJSON(t, app,
		fmt.Sprintf("/api/procurement/orders/%d/receive", order.ID),
		fiber.Map{
			"received_items": []fiber.Map{
				{"id": order.Items[0].ID, "received_quantity": 10},
				{"id": order.Items[1].ID, "received_quantity": 15},
			},
			"receiving_notes": "İlk parti teslim alındı",
		})

	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	require.Equal(t, string(models.PurchaseOrderPartiallyReceived), data["status"])
	require.Equal(t, "İlk parti teslim alındı", data["receiving_notes"])

	// Mal kabul audit kaydı düşmeli
	var logCount int64
	db.Model(&models.AuditLog{}).Where("entity_type = ?", "purchase_order").Count(&logCount)
	require.EqualValues(t, 1, logCount)
}

func TestReceiveOrderEndpointRejectsOverReceiptWithEnvelope(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := newTestApp(t, db)
	order := seedConfirmedOrder(t, db)

	status, body := postJSON(t, app,
		fmt.Sprintf("/api/procurement/orders/%d/receive", order.ID),
		fiber.Map{
			"received_items": []fiber.Map{
				{"id": order.Items[0].ID, "received_quantity": 999},
			},
		})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, false, body["success"])
	require.NotEmpty(t, body["error"])
}

func TestReceiveOrderEndpointValidatesBody(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := newTestApp(t, db)
	order := seedConfirmedOrder(t, db)

	status, body := postJSON(t, app,
		fmt.Sprintf("/api/procurement/orders/%d/receive", order.ID),
		fiber.Map{"received_items": []fiber.Map{}})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, false, body["success"])
}
