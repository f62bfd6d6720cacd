// Package bootstrap wires the catalog application together: logger,
// configuration, storage, services, and the API server.
package bootstrap
