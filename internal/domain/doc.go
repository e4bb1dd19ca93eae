// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The only entity is Task. Its identifier is produced by an IDFactory that
// the persistence layer invokes at insert time, so the entity itself never
// decides how identifiers are generated.
package domain
