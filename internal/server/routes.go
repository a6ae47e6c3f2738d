package server

import "net/http"

// registerRoutes sets up all endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render", s.handleRender)

	mux.HandleFunc("GET /api/plans", s.handleListPlans)
	mux.HandleFunc("POST /api/plans", s.handleCreatePlan)
	mux.HandleFunc("GET /api/plans/{id}", s.handleGetPlan)
	mux.HandleFunc("DELETE /api/plans/{id}", s.handleDeletePlan)
	mux.HandleFunc("POST /api/plans/{id}/optimize", s.handleOptimizePlan)
	mux.HandleFunc("POST /api/plans/{id}/summary", s.handleSummarizePlan)

	mux.HandleFunc("GET /plans/{id}", s.handlePlanPage)

	return s.logRequests(s.corsMiddleware(mux))
}
