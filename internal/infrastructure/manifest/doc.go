// Package manifest loads the list of applications started at boot.
//
// Manifests are TOML or YAML files:
//
//	home = "ApplicationDesktop"
//
//	[[apps]]
//	name = "ApplicationDesktop"
//	main_window = "MainWindow"
//
//	[[apps.windows]]
//	name = "MainWindow"
//	title = "Desktop"
//	lines = ["Calls", "Messages"]
package manifest
