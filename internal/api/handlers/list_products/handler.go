package list_products

import (
	"net/http"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
	"github.com/m04kA/PC-ReservationService/internal/domain"
)

// ProductResponse HTTP response model
type ProductResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	RequiresHelmet      bool    `json:"requiresHelmet"`
	RequiresVest        bool    `json:"requiresVest"`
	MaxPeople           int     `json:"maxPeople"`
	MaxConsecutiveSlots int     `json:"maxConsecutiveSlots"`
	Description         *string `json:"description,omitempty"`
}

// ProductListResponse ответ со списком продуктов
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type Handler struct {
	catalog ProductCatalog
	logger  Logger
}

func NewHandler(catalog ProductCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/products
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("GET /products - Failed to list products: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := ProductListResponse{
		Products: make([]ProductResponse, len(products)),
	}
	for i, p := range products {
		response.Products[i] = fromDomainProduct(p)
	}

	h.logger.Info("GET /products - Retrieved %d products", len(products))
	handlers.RespondJSON(w, http.StatusOK, response)
}

func fromDomainProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID,
		Name:                string(p.Name),
		Price:               p.Price,
		RequiresHelmet:      p.RequiresHelmet,
		RequiresVest:        p.RequiresVest,
		MaxPeople:           p.MaxPeople,
		MaxConsecutiveSlots: p.MaxConsecutiveSlots,
		Description:         p.Description,
	}
}
