// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	metricsstore "github.com/lumenlearn/lumenhub/internal/app/store/metrics"
	"github.com/lumenlearn/lumenhub/internal/app/system/authz"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin dashboard counts.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: uierrors.NewErrorLogger(logger),
	}
}

// dashboardResponse is the GET /dashboard payload.
type dashboardResponse struct {
	Counts              metricsstore.Counts `json:"counts"`
	ConversationsLast30 int64               `json:"conversations_last_30_days"`
}

// Serve handles GET /dashboard for the actor's organization.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if !authz.IsOrgAdmin(r) {
		h.ErrLog.Forbidden(w)
		return
	}
	orgID := authz.UserOrgID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	resp := dashboardResponse{
		Counts: metricsstore.FetchDashboardCounts(ctx, h.DB, orgID),
	}

	// Recent conversation volume; tolerant like the counts above.
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	if n, err := h.DB.Collection("conversations").CountDocuments(ctx, bson.M{
		"org_id":     orgID,
		"created_at": bson.M{"$gte": cutoff},
	}); err == nil {
		resp.ConversationsLast30 = n
	} else {
		h.Log.Warn("conversation volume count failed", zap.Error(err))
	}

	uierrors.JSON(w, http.StatusOK, resp)
}
