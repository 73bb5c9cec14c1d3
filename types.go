package main

import (
	"encoding/json"
	"net/http"

	"forestreport/models"
)

// Response envelopes. Keep them minimal and explicit.

type analysisResp struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type historyResp struct {
	Success bool            `json:"success"`
	Total   int             `json:"total"`
	Reports []models.Report `json:"reportes"`
}

type healthResp struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResp{Error: msg})
}
