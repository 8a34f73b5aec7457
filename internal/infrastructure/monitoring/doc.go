/*
Package monitoring provides Prometheus metrics for the phone runtime.

# Overview

Metrics cover the message bus (deliveries per kind and result, handling time,
mailbox depth), application actors (lifecycle transitions, window switches,
renders, action routing) and system services (hardware indicator round trips,
display frames).

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	metrics.RecordMessage("ApplicationDesktop", "app_switch", true, elapsed)

	timer := monitoring.NewTimer(metrics, "torch")
	// ... perform round trip ...
	timer.Stop("ok")

Every Record method is a no-op on a nil *Metrics, so components can run
without a collector.

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
