package subscriptions

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/clausewise/pkg/handlers"
	"github.com/JaimeStill/clausewise/pkg/identity"
	"github.com/JaimeStill/clausewise/pkg/routes"
)

// Handler serves the caller's entitlement.
type Handler struct {
	sys    System
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(sys System, logger *slog.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "subscriptions"),
		now:    now,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/subscription",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Current},
		},
	}
}

// Current reports the caller's plan and whether analyses run at premium depth.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrMissingIdentity)
		return
	}

	sub, err := h.sys.Find(r.Context(), owner)
	if errors.Is(err, ErrNotFound) {
		sub = Free(owner)
	} else if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Entitlement{
		Plan:    sub.Plan,
		Status:  sub.Status,
		Premium: sub.IsPremium(h.now()),
	})
}
