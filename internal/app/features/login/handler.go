// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	userstore "github.com/lumenlearn/lumenhub/internal/app/store/users"
	"github.com/lumenlearn/lumenhub/internal/app/system/auditlog"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"github.com/lumenlearn/lumenhub/internal/app/system/ratelimit"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler authenticates email+password sign-ins.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sm,
		ErrLog:     uierrors.NewErrorLogger(logger),
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse echoes the signed-in profile.
type loginResponse struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	MembershipStatus string `json:"membership_status,omitempty"`
	OrganizationID   string `json:"organization_id,omitempty"`
}

// HandleLogin handles POST /login. Bad email, bad password, and disabled
// accounts all return the same 401 so the endpoint leaks nothing about
// which part failed.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		h.ErrLog.BadRequest(w, "email and password are required")
		return
	}

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Log.Warn("sign-in rate limited",
			zap.String("ip", ratelimit.ClientIP(r)))
		h.ErrLog.TooManyRequests(w, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).VerifyPassword(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrBadCredentials) {
			h.Log.Debug("sign-in rejected", zap.String("email", email))
			h.ErrLog.Unauthorized(w)
			return
		}
		h.ErrLog.Internal(w, r, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}

	h.Limiter.ResetEmail(email)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	actor := &auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName}
	if u.OrganizationID != nil {
		actor.OrganizationID = u.OrganizationID.Hex()
	}
	auditlog.New(h.DB, h.Log).Auth(ctx, actor, "auth.login", "")

	resp := loginResponse{
		UserID:           u.ID.Hex(),
		Name:             u.FullName,
		Role:             u.Role,
		MembershipStatus: u.MembershipStatus,
	}
	if u.OrganizationID != nil {
		resp.OrganizationID = u.OrganizationID.Hex()
	}
	uierrors.JSON(w, http.StatusOK, resp)
}
