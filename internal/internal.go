// Package internal is code only for consumption from within the idgate
// project.
package internal

import (
	"github.com/gorilla/mux"
)

// Handlers is implemented by services that add http handlers to the router.
type Handlers interface {
	AddHandlers(*mux.Router)
}
