// Package api provides the HTTP API layer for the Model Search service.
// It uses the Huma framework on a chi router to provide OpenAPI
// documentation, query validation and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and the middleware chain
// - handlers/: HTTP request handlers for /api/search and /health
// - middleware/: CORS, request logging and per-IP rate limiting
//
// The OpenAPI document is served at /openapi.json and the docs UI at /docs.
//
// # Usage Example
//
//	cfg := api.APIConfig{
//	    Logger:     logger,
//	    Limiter:    store,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	}
//	humaAPI, router := api.NewAPIWithMiddleware(cfg)
//
//	handlers.NewSearchHandler(searchService, logger).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the flat body the web client expects:
//
//	{"error": "search term (q) is missing"}
//
// Validation failures map to 400. Anything else maps to 500 with a generic
// message; details are only logged.
//
package api
