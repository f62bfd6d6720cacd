package api

import (
	"net/http"
)

func (a *API) listModels(w http.ResponseWriter, r *http.Request) {
	req := parsePageRequest(r, "id")
	page, err := a.models.FindAll(r.Context(), req, parseModelFilters(r))
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, newPageResponse(r, page), http.StatusOK)
}

func (a *API) getModel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid model id", err)
		return
	}
	model, err := a.models.FindByID(r.Context(), id)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, model, http.StatusOK)
}

func (a *API) createModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	input, err := req.toInput()
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid manufacturing date", err)
		return
	}
	model, err := a.models.Create(r.Context(), input)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, model, http.StatusCreated)
}

func (a *API) updateModel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid model id", err)
		return
	}
	var req modelRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	input, err := req.toInput()
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid manufacturing date", err)
		return
	}
	model, err := a.models.Update(r.Context(), id, input)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, model, http.StatusOK)
}

func (a *API) deleteModel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid model id", err)
		return
	}
	if err := a.models.Delete(r.Context(), id); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
