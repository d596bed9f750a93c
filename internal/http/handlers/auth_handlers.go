package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-vision/internal/auth"
)

// IssueTokenHandler godoc
// @Summary Exchange operator credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Operator credentials"
// @Success 200 {object} TokenResult
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/token [post]
func IssueTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	token, err := tokenManager.Issue(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, TokenResult{Token: token})
}
