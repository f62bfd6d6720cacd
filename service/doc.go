// Package service implements the catalog business rules on top of the
// storage layer: reference resolution for foreign keys, the update
// concurrency policies, and write accounting.
package service
