package api

import (
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
)

type savedAddressResponse struct {
	ID         int32  `json:"id"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

func toSavedAddressResponse(a *domain.Address) savedAddressResponse {
	return savedAddressResponse{
		ID:         a.ID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
	}
}

type createAddressRequest struct {
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,len=6,numeric"`
	Phone      string `json:"phone" validate:"omitempty,min=10,max=15"`
	IsDefault  bool   `json:"is_default"`
}

// CreateAddress handles POST /api/addresses
func (h *OrderHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req createAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	address, err := h.orders.CreateAddress(r.Context(), domain.CreateAddressParams{
		UserID:     user.ID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toSavedAddressResponse(address))
}

// ListAddresses handles GET /api/addresses
func (h *OrderHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	addresses, err := h.orders.ListAddresses(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]savedAddressResponse, 0, len(addresses))
	for i := range addresses {
		out = append(out, toSavedAddressResponse(&addresses[i]))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"addresses": out})
}
