package handler

import (
	"net/http"

	fahttp "github.com/awantoch/familyassign/http"
)

// Handler is the entry point for the Vercel serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	fahttp.ServerlessHandler(w, r)
}
