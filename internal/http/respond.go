package http

import (
	"encoding/json"
	"log"
	"net/http"
)

// StatusResponse is the generic JSON envelope: every JSON endpoint reports a
// status of "success" or "error".
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type UpdateQuantityResponse struct {
	Status      string   `json:"status"`
	NewQuantity int      `json:"new_quantity"`
	NewSubtotal *float64 `json:"new_subtotal,omitempty"`
	TotalPrice  float64  `json:"total_price"`
}

type RemoveItemResponse struct {
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, StatusResponse{
		Status:  "error",
		Message: message,
	})
}
