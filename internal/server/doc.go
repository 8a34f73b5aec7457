// Package server assembles the phone runtime.
//
// Startup:
//  1. Load configuration from the environment
//  2. Initialize logger, metrics and tracing
//  3. Create the message bus and application manager
//  4. Create the settings, telemetry and display services
//  5. Build applications from the manifest and launch them
//  6. Serve the debug endpoints and feed keypad input until a signal arrives
//  7. Close every application, then the bus
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, server.Options{Display: os.Stdout})
//	if err := srv.Boot(); err != nil {
//	    log.Fatal(err)
//	}
package server
