package api

import (
	"net/http"
)

// register proxies user creation to the identity provider. A duplicate
// email maps to 409; provider failures stay a generic 500.
func (a *API) register(w http.ResponseWriter, r *http.Request) {
	if a.identity == nil {
		a.writeError(w, http.StatusServiceUnavailable, "identity provider is not configured", nil)
		return
	}

	var req authRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}

	if err := a.identity.Register(r.Context(), req.Email, req.Password); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, map[string]string{"message": "User created successfully"}, http.StatusCreated)
}

// authenticate exchanges credentials for an access token.
func (a *API) authenticate(w http.ResponseWriter, r *http.Request) {
	if a.identity == nil {
		a.writeError(w, http.StatusServiceUnavailable, "identity provider is not configured", nil)
		return
	}

	var req authRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}

	token, err := a.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, map[string]string{"accessToken": token}, http.StatusOK)
}
