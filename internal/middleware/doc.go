// Package middleware provides HTTP middleware for the debug server.
//
//   - CORS: lets a browser-based inspector on an allowed origin read runtime state
//   - RateLimit: per-IP token bucket, idle clients are evicted
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
