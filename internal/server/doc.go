// Package server provides the HTTP API for the magistrate voice
// service: the conversation endpoints, artifact and portrait serving,
// and the monitoring surface.
package server
