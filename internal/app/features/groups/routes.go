// internal/app/features/groups/routes.go
package groups

import (
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + CREATE
		pr.Get("/", h.ServeGroupsList)
		pr.Post("/", h.HandleCreateGroup)

		// SEED default dynamic groups
		pr.Post("/seed", h.HandleSeedGroups)

		// VIEW
		pr.Get("/{id}", h.ServeGroupView)
		pr.Get("/{id}/stats", h.ServeGroupStats)

		// EDIT + DELETE
		pr.Post("/{id}/edit", h.HandleEditGroup)
		pr.Post("/{id}/delete", h.HandleDeleteGroup)

		// DYNAMIC CRITERIA
		pr.Post("/{id}/criteria", h.HandleUpdateCriteria)

		// MEMBERS
		pr.Get("/{id}/members", h.ServeGroupMembers)
		pr.Get("/{id}/members/export", h.ServeExportMembers)
		pr.Post("/{id}/members/replace", h.HandleReplaceMembers)
		pr.Post("/{id}/members/add", h.HandleAddMember)
		pr.Post("/{id}/members/remove", h.HandleRemoveMember)
	})

	return r
}
