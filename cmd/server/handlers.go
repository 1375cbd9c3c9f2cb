package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vehicle-catalog/internal/model"
)

// errorResponse is the JSON error body shape shared by every failure path.
type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.Error("Failed to encode response body", "error", err)
	}
}

func (app *application) writeError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, errorResponse{Error: message})
}

// listVehiclesHandler serves GET /api/vehicles.
func (app *application) listVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	vehicles, err := app.catalog.List()
	if err != nil {
		app.logger.Error("Failed to list vehicles", "error", err)
		if app.legacyEmptyList {
			// Historical behaviour: mask store failures as an empty
			// catalog. Kept behind a config switch for compatibility.
			app.writeJSON(w, http.StatusOK, []*model.Vehicle{})
			return
		}
		app.writeError(w, http.StatusInternalServerError, "failed to load vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []*model.Vehicle{}
	}
	app.writeJSON(w, http.StatusOK, vehicles)
}

// createVehicleHandler serves POST /api/vehicles.
func (app *application) createVehicleHandler(w http.ResponseWriter, r *http.Request) {
	var input model.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		app.writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	vehicle, err := app.catalog.Create(input)
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			app.writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, model.ErrInvalidImage):
			app.writeError(w, http.StatusBadRequest, err.Error())
		default:
			app.logger.Error("Failed to create vehicle", "error", err)
			app.writeError(w, http.StatusInternalServerError, "failed to store vehicle")
		}
		return
	}

	app.writeJSON(w, http.StatusCreated, vehicle)
}

// deleteVehicleHandler serves DELETE /api/vehicles/{vehicleID}.
func (app *application) deleteVehicleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "vehicleID"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "vehicle id must be numeric")
		return
	}

	if err := app.catalog.Delete(id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		app.logger.Error("Failed to delete vehicle", "id", id, "error", err)
		app.writeError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
