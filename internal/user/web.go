package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/decode"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/http/html/paths"
)

type (
	// webHandlers provides user handlers for the web UI
	webHandlers struct {
		svc      webService
		renderer html.Renderer
	}

	// webService is the part of the user service consumed by the web
	// handlers.
	webService interface {
		CreateLocalUser(ctx context.Context, username, password string, opts ...NewUserOption) (*User, error)
	}
)

func (h *webHandlers) addHandlers(r *mux.Router) {
	r.HandleFunc(paths.Home(), h.home).Methods("GET")
	r.HandleFunc(paths.Profile(), h.profile).Methods("GET")
	r.HandleFunc(paths.NewUser(), h.newUser).Methods("GET")
	r.HandleFunc(paths.NewUser(), h.createUser).Methods("POST")
}

func (h *webHandlers) home(w http.ResponseWriter, r *http.Request) {
	page := html.NewSitePage(r, w, "home")
	if subject, err := FromContext(r.Context()); err == nil {
		page.CurrentUser = subject
	}
	h.renderer.Render("home.tmpl", w, r, page)
}

func (h *webHandlers) profile(w http.ResponseWriter, r *http.Request) {
	subject, err := FromContext(r.Context())
	if err != nil {
		// middleware guards this path; reaching here without a user is a
		// server fault
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}
	page := html.NewSitePage(r, w, "profile")
	page.CurrentUser = subject
	h.renderer.Render("profile.tmpl", w, r, page)
}

func (h *webHandlers) newUser(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render("create.tmpl", w, r, html.NewSitePage(r, w, "sign up"))
}

func (h *webHandlers) createUser(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Username    string `schema:"username,required"`
		Password    string `schema:"password,required"`
		Email       string `schema:"email"`
		DisplayName string `schema:"display_name"`
	}
	if err := decode.Form(&form, r); err != nil {
		html.Error(r, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var opts []NewUserOption
	if form.Email != "" {
		opts = append(opts, WithEmails([]Email{{Value: form.Email}}))
	}
	if form.DisplayName != "" {
		opts = append(opts, WithDisplayName(form.DisplayName))
	}

	subject, err := h.svc.CreateLocalUser(r.Context(), form.Username, form.Password, opts...)
	if err != nil {
		if errors.Is(err, internal.ErrResourceAlreadyExists) {
			html.FlashError(w, "username already taken")
			http.Redirect(w, r, paths.NewUser(), http.StatusFound)
			return
		}
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}

	html.FlashSuccess(w, "created account "+subject.Username)
	http.Redirect(w, r, paths.Login(), http.StatusFound)
}
