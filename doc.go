// Package backend provides the Friendsnet API server.

// This package contains the main application entry points. The actual API
// implementation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/feed: the aggregated-feed builder (candidate retrieval, merge,
//   dedup, pagination)
// - internal/models: post and user document models
// - internal/repository: MongoDB repositories and aggregation pipelines
// - internal/database: database connection and index management
// - internal/cache: Redis client for the trending-tag cache
// - internal/middleware: HTTP middleware (auth, request IDs, logging, metrics)
// - internal/metrics: Prometheus collectors
// - internal/seed: fake-data seeding for development databases
package backend
