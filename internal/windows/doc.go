// Package windows holds the concrete windows applications are built from.
package windows
