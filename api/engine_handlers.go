package api

import (
	"net/http"

	"autocatalog/core"
)

func (a *API) listEngines(w http.ResponseWriter, r *http.Request) {
	req := parsePageRequest(r, "id")
	page, err := a.engines.FindAll(r.Context(), req)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, newPageResponse(r, page), http.StatusOK)
}

func (a *API) getEngine(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid engine id", err)
		return
	}
	engine, err := a.engines.FindByID(r.Context(), id)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, engine, http.StatusOK)
}

func (a *API) createEngine(w http.ResponseWriter, r *http.Request) {
	var req engineRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	engine, err := a.engines.Create(r.Context(), req.Name, req.Capacity, core.EngineType(req.Type))
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, engine, http.StatusCreated)
}

func (a *API) updateEngine(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid engine id", err)
		return
	}
	var req engineRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if messages := a.validateRequest(req); messages != nil {
		a.writeValidationError(w, messages)
		return
	}
	engine, err := a.engines.Update(r.Context(), id, req.Name, req.Capacity, core.EngineType(req.Type))
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, engine, http.StatusOK)
}

func (a *API) deleteEngine(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid engine id", err)
		return
	}
	if err := a.engines.Delete(r.Context(), id); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
