// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the custody tracking system.
// It implements workflows that don't naturally belong to a single aggregate
// root.
//
// The package includes:
//   - TransformationEngine: a domain service that consumes a source lot and
//     produces its descendant lots while conserving quantity
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
