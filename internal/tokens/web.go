package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal/http/html/paths"
)

// webHandlers provides session handlers for the web UI
type webHandlers struct {
	svc *Service
}

func (h *webHandlers) addHandlers(r *mux.Router) {
	r.HandleFunc(paths.Logout(), h.logout).Methods("GET")
}

func (h *webHandlers) logout(w http.ResponseWriter, r *http.Request) {
	h.svc.EndSession(w)
	http.Redirect(w, r, paths.Home(), http.StatusFound)
}
