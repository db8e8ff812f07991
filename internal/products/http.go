package products

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"RecordStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Log   *zap.Logger
	Store Store
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	r.Get("/{id}", s.handleGet)
	r.Put("/{id}", s.handleUpdate)
	r.Delete("/{id}", s.handleDelete)

	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.Store.FindAll(r.Context())
	if err != nil {
		s.Log.Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"total":    len(all),
		"products": all,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.FindOne(r.Context(), id)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"product": p})
}

type createReq struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
	Image    string   `json:"image"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Image = strings.TrimSpace(req.Image)

	if req.Name == "" || req.Image == "" || req.Price == nil || req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "name, price, quantity and image required", nil)
		return
	}
	if *req.Price <= 0 || *req.Quantity < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "price must be positive and quantity non-negative", nil)
		return
	}

	p, err := s.Store.Create(r.Context(), NewProduct{
		Name:     req.Name,
		Price:    *req.Price,
		Quantity: *req.Quantity,
		Image:    req.Image,
	})
	if err != nil {
		s.Log.Error("create product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, map[string]any{"product": p})
}

type updateReq struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
	Image    *string  `json:"image"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReq
	if !decodeBody(w, r, &req) {
		return
	}

	patch := Patch{Name: req.Name, Price: req.Price, Quantity: req.Quantity, Image: req.Image}
	if patch.IsZero() {
		kit.WriteError(w, r, http.StatusBadRequest, "empty update", nil)
		return
	}
	if patch.Price != nil && *patch.Price <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "price must be positive", nil)
		return
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity must be non-negative", nil)
		return
	}

	p, ok, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.Store.Remove(r.Context(), id)
	if err != nil {
		s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	w.WriteHeader(http.StatusOK)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	return true
}
