package api

import (
	"net/http"
)

func (a *API) listCars(w http.ResponseWriter, r *http.Request) {
	req := parsePageRequest(r, "id")
	page, err := a.cars.FindAll(r.Context(), req, parseCarFilters(r))
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, newPageResponse(r, page), http.StatusOK)
}

func (a *API) getCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid car id", err)
		return
	}
	car, err := a.cars.FindByID(r.Context(), id)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, car, http.StatusOK)
}

func (a *API) createCar(w http.ResponseWriter, r *http.Request) {
	var req carCreateRequest
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
	car, err := a.cars.Create(r.Context(), input)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, car, http.StatusCreated)
}

// updateCar applies a full overwrite guarded by the version the client
// read; a stale version yields 409.
func (a *API) updateCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid car id", err)
		return
	}
	var req carUpdateRequest
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
	car, err := a.cars.Update(r.Context(), id, input, req.Version)
	if err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	a.respondJSON(w, car, http.StatusOK)
}

func (a *API) deleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid car id", err)
		return
	}
	if err := a.cars.Delete(r.Context(), id); err != nil {
		a.handleServiceError(w, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
