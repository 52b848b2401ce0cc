package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/service"
)

type ProductHandler struct {
	Catalog *service.CatalogService
	Logger  *zap.Logger
}

func (h *ProductHandler) Register(r chi.Router) {
	r.Route("/api/product", func(r chi.Router) {
		// catalog browsing is public
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Post("/", h.createProduct)
			r.Get("/seller/my", h.listMyProducts)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})
}

type productReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Stock       int    `json:"stock"`
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	price, err := parseMoney(req.Price, req.Currency)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	product, err := h.Catalog.CreateProduct(r.Context(), callerFrom(r), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "product", toProductDTO(product))
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.Catalog.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "product", toProductDTO(product))
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "products", toProductDTOs(products))
}

func (h *ProductHandler) listMyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListMyProducts(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "products", toProductDTOs(products))
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	price, err := parseMoney(req.Price, req.Currency)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	product, err := h.Catalog.UpdateProduct(r.Context(), callerFrom(r), domain.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "product", toProductDTO(product))
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteProduct(r.Context(), callerFrom(r), productID); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted successfully",
	})
}
