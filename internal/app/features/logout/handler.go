// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler clears sessions.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sm,
		ErrLog:     uierrors.NewErrorLogger(logger),
	}
}

// HandleLogout handles POST /logout. Signing out an anonymous session is a
// no-op success.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"signed_out": true})
}
