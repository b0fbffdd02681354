// Package models defines the core domain models for the list-sharing backend.
//
// # Entities
//
//   - User: a registered account with per-field privacy flags
//   - List: a named collection of places owned by one user
//   - Place: an entry in a list, identified by an external place ID
//   - Follow: a directed edge between two users
//   - Notification: a message fanned out to a user after a domain event
//
// Collaborator edges are stored as (list_id, user_id) pairs and surface in the
// API as plain users, so they have no struct of their own.
//
// # Design principles
//
//  1. Use ID strings instead of pointers for relationships to avoid cycles
//  2. Timestamps are Unix seconds, assigned by the storage layer
//  3. Visibility is never computed here; the access package owns that logic
package models
