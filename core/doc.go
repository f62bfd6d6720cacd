// Package core contains the catalog domain types shared across the
// storage, service, and API layers: the five catalog entities, the
// predicate builder used by the filtered list queries, and the
// pagination types.
package core
