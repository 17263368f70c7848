package html

import (
	"net/http"
)

// SitePage contains data shared by all pages when rendering templates.
type SitePage struct {
	Title string
	// CurrentUser is the authenticated user, if any. Declared as any to avoid
	// an import cycle with the user package; templates access its fields via
	// reflection.
	CurrentUser any
	Flashes     []Flash
}

// NewSitePage constructs a page, popping any flash messages set by a previous
// request.
func NewSitePage(r *http.Request, w http.ResponseWriter, title string) SitePage {
	flashes, err := PopFlashes(r, w)
	if err != nil {
		// a corrupt flash cookie is not worth failing the page over
		flashes = nil
	}
	return SitePage{Title: title, Flashes: flashes}
}
