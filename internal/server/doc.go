// Package server exposes the HTTP conversion API: discovery endpoints, a
// health probe, and the authenticated /convert endpoint that drives the
// engine runner.
package server
