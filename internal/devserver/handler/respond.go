// Package handler implements the devserver's HTTP surface: the product and
// user REST endpoints the client consumes, plus the identity endpoint subset
// used for password sign-in.
package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the DRF-style {"detail": ...} error body the client
// surfaces verbatim.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeIdentityError emits the identity provider's error envelope with a
// machine-readable message code.
func writeIdentityError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": code,
		},
	})
}
