package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/version"
)

// maxBodySize bounds request bodies; the whole config document is a few KB.
const maxBodySize = 64 << 10

type valueBody struct {
	Value interface{} `json:"value"`
}

type targetBody struct {
	Target interface{} `json:"target"`
	Active *bool       `json:"active"`
}

type errorBody struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// StatusResponse is returned by GET /api/status
type StatusResponse struct {
	Version    string           `json:"version"`
	File       string           `json:"file,omitempty"`
	Dirty      bool             `json:"dirty"`
	Clients    int              `json:"clients"`
	Thermostat ThermostatStatus `json:"thermostat"`
	WiFiMode   string           `json:"wifi_mode"`
}

// ThermostatStatus is the thermostat part of the status and target endpoints
type ThermostatStatus struct {
	Active bool        `json:"active"`
	Target interface{} `json:"target"`
}

// WiFiCredentials is the body of POST /api/wifi/save
type WiFiCredentials struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// Handler returns the HTTP handler serving the API and the change feed
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("GET /api/config/{path}", s.handleGetValue)
	mux.HandleFunc("PUT /api/config/{path}", s.handleSetValue)
	mux.HandleFunc("POST /api/config/save", s.handleSave)
	mux.HandleFunc("POST /api/config/reload", s.handleReload)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/target", s.handleGetTarget)
	mux.HandleFunc("POST /api/target", s.handleSetTarget)
	mux.HandleFunc("POST /api/wifi/save", s.handleWiFiSave)
	mux.Handle("GET /ws", s.hub)
	return logRequests(mux)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleGetValue(w http.ResponseWriter, r *http.Request) {
	value, err := s.store.Get(r.PathValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, valueBody{Value: value})
}

func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	var body valueBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	// Only existing settings can be written; the API never adds keys.
	if !s.store.Has(path) {
		writeError(w, config.NewPathNotFoundError(path))
		return
	}
	if err := s.store.Set(path, fromJSON(body.Value)); err != nil {
		writeError(w, err)
		return
	}

	value, _ := s.store.Get(path)
	writeJSON(w, http.StatusOK, valueBody{Value: value})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Save(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reload(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	mode, _ := s.store.Get("wifi.mode")
	modeName, _ := mode.(string)

	writeJSON(w, http.StatusOK, StatusResponse{
		Version:    version.Version,
		File:       s.store.FilePath(),
		Dirty:      s.store.Dirty(),
		Clients:    s.hub.Clients(),
		Thermostat: s.thermostat(),
		WiFiMode:   modeName,
	})
}

func (s *Server) thermostat() ThermostatStatus {
	active, _ := s.store.Get("thermostat.active")
	target, _ := s.store.Get("thermostat.target")
	on, _ := active.(bool)
	return ThermostatStatus{Active: on, Target: target}
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.thermostat())
}

// handleSetTarget updates the thermostat setpoint and/or its active flag.
// Fields missing from the body are left alone.
func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var body targetBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if body.Target == nil && body.Active == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "target or active is required"})
		return
	}

	if body.Target != nil {
		if err := s.store.Set("thermostat.target", fromJSON(body.Target)); err != nil {
			writeError(w, err)
			return
		}
	}
	if body.Active != nil {
		if err := s.store.Set("thermostat.active", *body.Active); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.thermostat())
}

// handleWiFiSave stores credentials for a network, selects it and saves.
// An SSID that is already known gets its password replaced.
func (s *Server) handleWiFiSave(w http.ResponseWriter, r *http.Request) {
	var creds WiFiCredentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if creds.SSID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "ssid is required"})
		return
	}

	// List and selection change together or not at all.
	var index int
	err := s.store.Update(func(tx *config.Tx) error {
		current, err := tx.Get("wifi.known")
		if err != nil {
			return err
		}
		known, _ := current.([]interface{})

		index = -1
		networks := make([]interface{}, 0, len(known)+1)
		for i, entry := range known {
			if m, ok := entry.(map[string]interface{}); ok && m["ssid"] == creds.SSID {
				index = i
				entry = map[string]interface{}{"ssid": creds.SSID, "password": creds.Password}
			}
			networks = append(networks, entry)
		}
		if index < 0 {
			index = len(networks)
			networks = append(networks, map[string]interface{}{"ssid": creds.SSID, "password": creds.Password})
		}

		if err := tx.Set("wifi.known", networks); err != nil {
			return err
		}
		return tx.Set("wifi.selected", index)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("WiFi network saved", zap.String("ssid", creds.SSID), zap.Int("index", index))
	writeJSON(w, http.StatusOK, map[string]interface{}{"ssid": creds.SSID, "selected": index})
}

// decodeBody decodes a JSON body into v, keeping numbers as json.Number.
// Free-form values go through fromJSON before reaching the store.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	return nil
}

// fromJSON turns json.Number into int when integral and float64 otherwise,
// so integer settings keep their shape.
func fromJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = fromJSON(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = fromJSON(item)
		}
		return out
	default:
		return value
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	var storeErr *config.StoreError
	if !errors.As(err, &storeErr) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, errorStatus(storeErr), errorBody{Error: storeErr.Error(), Type: storeErr.Type.String()})
}

func errorStatus(err *config.StoreError) int {
	switch err.Type {
	case config.ErrTypePathNotFound:
		return http.StatusNotFound
	case config.ErrTypeValidation:
		return http.StatusBadRequest
	case config.ErrTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
