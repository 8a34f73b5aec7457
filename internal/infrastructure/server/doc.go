// Package server provides the debug HTTP server.
//
// Routes:
//
//	GET    /healthz              manager statistics
//	GET    /metrics              Prometheus exposition
//	GET    /runtime              Go runtime statistics and bus actors
//	GET    /apps                 running applications
//	GET    /apps/:name           one application
//	POST   /apps/:name/switch    bring an application to the foreground
//	DELETE /apps/:name           close an application and its children
//	POST   /apps/:name/rebuild   reconstruct an application's windows
//	POST   /apps/:name/suspend   draw the last frame before suspend
//	PUT    /apps/:name/indicators/:indicator
//	                             switch a hardware indicator
//	GET    /settings?scope=      stored settings
//	PUT    /settings/:key        store a setting
package server
