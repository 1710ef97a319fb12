// Package core contains the business logic for the Model Search API.
// It has no knowledge of HTTP routing or process wiring and can be used
// independently of the api and cmd packages.
//
// The core package is organized into several sub-packages:
//
// - domain: The normalized SearchResult record and source names
// - search: The aggregator that fans a term out to every source and merges the results
// - sources/printables: GraphQL client for Printables
// - sources/thingiverse: Token-authenticated REST client for Thingiverse
// - sources/makerworld: HTML scraper for the MakerWorld search page
// - errors: Typed errors shared by the adapters and the API layer
// - interfaces: Contracts for external dependencies (HTTP, logger, sources)
//
// # Design Principles
//
// - All external dependencies are injected via interfaces
// - A failing source never fails the whole search
// - Every source is capped at domain.MaxResultsPerSource records
//
// # Usage Example
//
//	import (
//	    "modelsearch-api/core/interfaces"
//	    "modelsearch-api/core/search"
//	    "modelsearch-api/core/sources/thingiverse"
//	)
//
//	deps := interfaces.Dependencies{
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	service := search.NewSearchService(deps, []interfaces.SearchSource{
//	    thingiverse.New(deps, thingiverse.Config{}),
//	})
//
//	results, err := service.Search(ctx, "benchy")
//
package core
