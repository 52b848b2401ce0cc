package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/service"
)

type SellerHandler struct {
	Sellers *service.SellerService
	Logger  *zap.Logger
}

func (h *SellerHandler) Register(r chi.Router) {
	r.Route("/api/seller", func(r chi.Router) {
		r.Use(RequireAuth)

		r.Post("/", h.registerSeller)
		r.Get("/", h.listSellers)
		r.Get("/{id}", h.getSeller)
		r.Put("/{id}", h.updateSeller)
		r.Delete("/{id}", h.deleteSeller)
		r.Put("/{id}/approve", h.approveSeller)
	})
}

type sellerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ShopName string `json:"shopName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *SellerHandler) registerSeller(w http.ResponseWriter, r *http.Request) {
	var req sellerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	seller, err := h.Sellers.RegisterSeller(r.Context(), callerFrom(r), domain.Seller{
		Name:     req.Name,
		Email:    req.Email,
		ShopName: req.ShopName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "seller", toSellerDTO(seller))
}

func (h *SellerHandler) getSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	seller, err := h.Sellers.GetSeller(r.Context(), sellerID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "seller", toSellerDTO(seller))
}

func (h *SellerHandler) listSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.Sellers.ListSellers(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	dtos := lo.Map(sellers, func(s domain.Seller, _ int) sellerDTO {
		return toSellerDTO(s)
	})

	writeSuccess(w, http.StatusOK, "sellers", dtos)
}

func (h *SellerHandler) updateSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req sellerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	seller, err := h.Sellers.UpdateSeller(r.Context(), callerFrom(r), domain.Seller{
		ID:       sellerID,
		Name:     req.Name,
		Email:    req.Email,
		ShopName: req.ShopName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "seller", toSellerDTO(seller))
}

func (h *SellerHandler) deleteSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Sellers.DeleteSeller(r.Context(), callerFrom(r), sellerID); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Seller deleted",
	})
}

func (h *SellerHandler) approveSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	seller, err := h.Sellers.ApproveSeller(r.Context(), callerFrom(r), sellerID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "seller", toSellerDTO(seller))
}
