package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"RecordStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 15 * time.Minute

	// bcrypt only consumes the first 72 bytes and errors beyond that;
	// anything longer is a client mistake, not a server failure.
	maxPasswordBytes = 72

	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindow         = time.Minute
)

type Server struct {
	Log   *zap.Logger
	Store Store
	JWT   *TokenMaker
}

// userView is what handlers return to clients: the record minus its
// credential digest.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func view(u User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

func views(us []User) []userView {
	out := make([]userView, 0, len(us))
	for _, u := range us {
		out = append(out, view(u))
	}
	return out
}

func (s *Server) Routes() http.Handler {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	registerLimiter := kit.NewIPRateLimiter(registerLimitPerMin, limitWindow)

	r := chi.NewRouter()

	r.Get("/", s.handleList)
	r.With(registerLimiter.Middleware).Post("/register", s.handleRegister)
	r.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
	r.Get("/whoami", s.handleWhoAmI)
	r.Get("/{id}", s.handleGet)
	r.Put("/{id}", s.handleUpdate)
	r.Delete("/{id}", s.handleDelete)

	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.Store.FindAll(r.Context())
	if err != nil {
		s.Log.Error("list users failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"total_users": len(all),
		"users":       views(all),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, ok, err := s.Store.FindOne(r.Context(), id)
	if err != nil {
		s.Log.Error("get user failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "user not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"user": view(u)})
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username, email and password required", nil)
		return
	}
	if len(req.Password) > maxPasswordBytes {
		kit.WriteError(w, r, http.StatusBadRequest, "password too long", map[string]any{"max_bytes": maxPasswordBytes})
		return
	}

	if _, exists, err := s.Store.FindByEmail(r.Context(), req.Email); err != nil {
		s.Log.Error("email lookup failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	} else if exists {
		kit.WriteError(w, r, http.StatusConflict, ErrEmailExists.Error(), nil)
		return
	}

	u, err := s.Store.Create(r.Context(), NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err == ErrEmailExists {
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		s.Log.Error("create user failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, map[string]any{"user": view(u)})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email and password required", nil)
		return
	}

	// Unknown email and wrong password are deliberately the same
	// response, so a caller cannot probe which emails are registered.
	u, ok, err := s.Store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.Log.Error("authenticate failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.JWT.New(u, tokenTTL)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"user":         view(u),
		"access_token": tok,
	})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	claims, err := s.JWT.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"email":    claims.Email,
	})
}

type updateReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReq
	if !decodeBody(w, r, &req) {
		return
	}

	patch := Patch{Username: req.Username, Email: req.Email, Password: req.Password}
	if patch.IsZero() {
		kit.WriteError(w, r, http.StatusBadRequest, "empty update", nil)
		return
	}
	if patch.Password != nil && len(*patch.Password) > maxPasswordBytes {
		kit.WriteError(w, r, http.StatusBadRequest, "password too long", map[string]any{"max_bytes": maxPasswordBytes})
		return
	}

	u, ok, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		s.Log.Error("update user failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "user not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"user": view(u)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.Store.Remove(r.Context(), id)
	if err != nil {
		s.Log.Error("delete user failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "user not found", map[string]any{"id": id})
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
