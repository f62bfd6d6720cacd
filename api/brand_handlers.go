package api

import (
	"net/http"
)

func (a *API) listBrands(w http.ResponseWriter, r *http.Request) {
	req := parsePageRequest(r, "id")
	page, err := a.brands.FindAll(r.Context(), req)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, newPageResponse(r, page), http.StatusOK)
}

func (a *API) getBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid brand id", err)
		return
	}
	brand, err := a.brands.FindByID(r.Context(), id)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, brand, http.StatusOK)
}

func (a *API) createBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	brand, err := a.brands.Create(r.Context(), req.Name)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, brand, http.StatusCreated)
}

func (a *API) updateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid brand id", err)
		return
	}
	var req brandRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	brand, err := a.brands.Update(r.Context(), id, req.Name)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, brand, http.StatusOK)
}

func (a *API) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid brand id", err)
		return
	}
	if err := a.brands.Delete(r.Context(), id); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
