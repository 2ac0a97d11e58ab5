package handler

import "github.com/leca/dt-valet/internal/database"

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB database.Database
}
