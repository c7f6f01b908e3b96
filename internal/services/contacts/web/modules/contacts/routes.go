package contacts

import (
	"net/http"

	"github.com/louisbranch/contacts/internal/services/contacts/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.Add, h.handleAdd)
	mux.HandleFunc(http.MethodGet+" "+routepath.EditPattern, h.handleEditGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.EditPattern, h.handleEditPost)
	mux.HandleFunc(http.MethodPost+" "+routepath.DeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
}
