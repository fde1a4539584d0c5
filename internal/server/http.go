package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"InnKeeper/internal/inn"
	"InnKeeper/internal/mission"
	"InnKeeper/internal/save"
)

// apiError is the body of every failed request.
type apiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type apiResult struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// Routes builds the HTTP API and the websocket endpoint.
func (a *App) Routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", a.handleState).Methods("GET")
	api.HandleFunc("/catalog", a.handleCatalog).Methods("GET")
	api.HandleFunc("/missions/available", a.handleAvailable).Methods("GET")
	api.HandleFunc("/missions/active", a.handleActive).Methods("GET")
	api.HandleFunc("/missions/history", a.handleHistory).Methods("GET")
	api.HandleFunc("/missions", a.handleDispatch).Methods("POST")
	api.HandleFunc("/missions/{id:[0-9]+}", a.handleMission).Methods("GET")
	api.HandleFunc("/missions/{id:[0-9]+}", a.handleCancel).Methods("DELETE")
	api.HandleFunc("/missions/{id:[0-9]+}/recall", a.handleRecall).Methods("POST")
	api.HandleFunc("/stats", a.handleStats).Methods("GET")
	api.HandleFunc("/inn", a.handleInn).Methods("GET")
	api.HandleFunc("/inn/upgrade", a.handleUpgrade).Methods("POST")
	api.HandleFunc("/staff/{id:[0-9]+}/hire", a.handleHire).Methods("POST")
	api.HandleFunc("/staff/{id:[0-9]+}/dismiss", a.handleDismiss).Methods("POST")
	api.HandleFunc("/saves", a.handleSlots).Methods("GET")
	api.HandleFunc("/saves/{slot}", a.handleSave).Methods("PUT")
	api.HandleFunc("/saves/{slot}", a.handleDeleteSlot).Methods("DELETE")
	api.HandleFunc("/saves/{slot}/load", a.handleLoad).Methods("POST")

	r.HandleFunc("/ws", a.serveWS)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResult{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), apiError{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, mission.ErrMissionNotFound),
		errors.Is(err, inn.ErrUnknownEmployee),
		errors.Is(err, save.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mission.ErrInvalidState),
		errors.Is(err, mission.ErrParticipantBusy),
		errors.Is(err, inn.ErrEmployeeBusy):
		return http.StatusConflict
	case errors.Is(err, mission.ErrValidation),
		errors.Is(err, inn.ErrEmployeeLocked),
		errors.Is(err, inn.ErrInsufficientSilver),
		errors.Is(err, inn.ErrMaxLevel),
		errors.Is(err, save.ErrBadSlot),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errSavesDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, fmt.Errorf("%w: bad id: %v", errBadRequest, err)
	}
	return id, nil
}

func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.State())
}

func (a *App) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.Catalog())
}

func (a *App) handleAvailable(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.Available())
}

func (a *App) handleActive(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.Active())
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := mission.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, fmt.Errorf("%w: bad limit %q", errBadRequest, raw))
			return
		}
		limit = n
	}
	writeOK(w, a.History(limit))
}

func (a *App) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	dto, err := a.Dispatch(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apiResult{Success: true, Data: dto})
}

func (a *App) handleMission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dto, err := a.Mission(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, dto)
}

func (a *App) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.Cancel(id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

func (a *App) handleRecall(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dto, err := a.Recall(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, dto)
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.Stats())
}

func (a *App) handleInn(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.Inn())
}

func (a *App) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	dto, err := a.Upgrade()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, dto)
}

func (a *App) handleHire(w http.ResponseWriter, r *http.Request) {
	a.staffAction(w, r, a.Hire)
}

func (a *App) handleDismiss(w http.ResponseWriter, r *http.Request) {
	a.staffAction(w, r, a.Dismiss)
}

func (a *App) staffAction(w http.ResponseWriter, r *http.Request, action func(int) (innDTO, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dto, err := action(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, dto)
}

func (a *App) handleSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := a.Slots()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, slots)
}

func (a *App) handleSave(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]
	if err := a.SaveSlot(slot); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, slotRequest{Slot: slot})
}

func (a *App) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]
	if err := a.DeleteSlot(slot); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, slotRequest{Slot: slot})
}

func (a *App) handleLoad(w http.ResponseWriter, r *http.Request) {
	state, err := a.LoadSlot(mux.Vars(r)["slot"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, state)
}
