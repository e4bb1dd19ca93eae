// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Services receive their dependencies through constructor injection and
// depend only on the store interfaces, never on a concrete database.
// Store-level sentinel errors are translated into service-level ones so the
// API layer can map them to HTTP status codes without knowing about storage.
package service
