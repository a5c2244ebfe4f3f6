package server

import (
	_ "embed"
	"net/http"

	"iris_api/pkg/httpx/reply"
)

//go:embed web/index.html
var indexPage []byte

// PageServer serves the interactive test page.
type PageServer struct{}

func NewPageServer() PageServer {
	return PageServer{}
}

func (PageServer) getIndex(w http.ResponseWriter, r *http.Request) error {
	reply.HTML(r.Context(), w, http.StatusOK, indexPage)

	return nil
}
