// -----------------------------------------------------------------------
// Last Modified: Thursday, 20th August 2026 9:14:42 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Assistant pipeline
	mux.HandleFunc("/api/ask", s.app.AskHandler.AskHandler)               // POST - question or file analysis
	mux.HandleFunc("/api/ask/health", s.app.AskHandler.HealthHandler)     // GET - LLM provider health
	mux.HandleFunc("/api/abbreviate", s.app.AskHandler.AbbreviateHandler) // POST - abbreviation suggestion

	// API routes - Exchange history
	mux.HandleFunc("/api/history", s.app.HistoryHandler.ListHandler)
	mux.HandleFunc("/api/history/", s.app.HistoryHandler.GetHandler) // GET /{id}

	// API routes - LLM audit trail
	mux.HandleFunc("/api/audit", s.app.AuditHandler.RecentHandler)
	mux.HandleFunc("/api/audit/export", s.app.AuditHandler.ExportHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
