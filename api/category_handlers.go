package api

import (
	"net/http"
)

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	req := parsePageRequest(r, "id")
	page, err := a.categories.FindAll(r.Context(), req)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, newPageResponse(r, page), http.StatusOK)
}

func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid category id", err)
		return
	}
	category, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, category, http.StatusOK)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	category, err := a.categories.Create(r.Context(), req.Name)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, category, http.StatusCreated)
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid category id", err)
		return
	}
	var req categoryRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	category, err := a.categories.Update(r.Context(), id, req.Name)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, category, http.StatusOK)
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid category id", err)
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
