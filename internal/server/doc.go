// package server hosts the short-lived localhost HTTP server used during
// OAuth authorization code flows. The server exists only long enough to
// receive one callback; both external services redirect to it.
package server
