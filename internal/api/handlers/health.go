package handlers

import (
	"net/http"

	"github.com/cloo-solutions/docqa/internal/api"
)

func Root(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]string{"message": "AI Document Search API"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]string{"status": "up"})
}
