package api

import (
	"net/http"
	"time"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
)

type reviewResponse struct {
	ID         int32  `json:"id"`
	ProductID  int32  `json:"product_id"`
	UserID     int32  `json:"user_id"`
	Rating     int16  `json:"rating"`
	Comment    string `json:"comment"`
	IsApproved bool   `json:"is_approved"`
	CreatedAt  string `json:"created_at"`
}

func toReviewResponse(rv *domain.Review) reviewResponse {
	return reviewResponse{
		ID:         rv.ID,
		ProductID:  rv.ProductID,
		UserID:     rv.UserID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		IsApproved: rv.IsApproved,
		CreatedAt:  rv.CreatedAt.Format(time.RFC3339),
	}
}

type addReviewRequest struct {
	Rating  int16  `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// AddReview handles POST /api/products/{id}/reviews
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	productID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req addReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	review, err := h.products.AddReview(r.Context(), user.ID, productID, req.Rating, req.Comment)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.business.RecordReview()
	RespondJSON(w, http.StatusCreated, toReviewResponse(review))
}

// ListReviews handles GET /api/products/{id}/reviews
// Unapproved reviews are visible to admins only.
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	approvedOnly := user == nil || !user.IsAdmin

	reviews, err := h.products.ListReviews(r.Context(), productID, approvedOnly)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"reviews": out})
}
