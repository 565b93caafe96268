package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
)

// OrderHandler serves order retrieval and fulfillment endpoints.
type OrderHandler struct {
	orders domain.OrderService
	logger *slog.Logger
}

func NewOrderHandler(orders domain.OrderService, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{orders: orders, logger: logger}
}

type orderResponse struct {
	ID               int32  `json:"id"`
	UserID           int32  `json:"user_id"`
	Status           string `json:"status"`
	PaymentMethod    string `json:"payment_method"`
	TotalAmountPaise int64  `json:"total_amount_paise"`
	CreatedAt        string `json:"created_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		Status:           string(o.Status),
		PaymentMethod:    o.PaymentMethod,
		TotalAmountPaise: int64(o.TotalAmount),
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
	}
}

type orderItemResponse struct {
	ProductID            int32  `json:"product_id"`
	ProductName          string `json:"product_name"`
	Quantity             int32  `json:"quantity"`
	PriceAtPurchasePaise int64  `json:"price_at_purchase_paise"`
}

type addressResponse struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
}

type orderDetailResponse struct {
	orderResponse
	Items   []orderItemResponse `json:"items"`
	Address *addressResponse    `json:"address,omitempty"`
}

func toOrderDetailResponse(d *domain.OrderDetail) orderDetailResponse {
	items := make([]orderItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orderItemResponse{
			ProductID:            it.ProductID,
			ProductName:          it.ProductName,
			Quantity:             it.Quantity,
			PriceAtPurchasePaise: int64(it.PriceAtPurchase),
		})
	}

	out := orderDetailResponse{
		orderResponse: toOrderResponse(&d.Order),
		Items:         items,
	}
	if d.Address != nil {
		out.Address = &addressResponse{
			Line1:      d.Address.Line1,
			Line2:      d.Address.Line2,
			City:       d.Address.City,
			State:      d.Address.State,
			PostalCode: d.Address.PostalCode,
			Phone:      d.Address.Phone,
		}
	}
	return out
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orders, err := h.orders.ListOrders(r.Context(), user.ID, user.IsAdmin)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": out})
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orderID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), user.ID, user.IsAdmin, orderID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /api/orders/{id}/status (admin)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderResponse(order))
}
