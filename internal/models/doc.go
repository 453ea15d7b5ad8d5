// Package models defines the core domain models for mealbook.
//
// # Current Models
//
//   - Meal: a timestamped, categorized record of eaten food items with an optional photo
//   - FoodItem: one named food entry with quantity and free-text notes
//   - WeightEntry: a dated body-weight measurement
//   - UserSettings: the single settings document (macro targets and preferences)
//   - ChatMessage: one turn of a recipe-assistant conversation
//   - AccessLevel: the coarse privilege tag derived from the shared password
//
// The database has a single implicit tenant, so none of the models carry a
// user or owner ID.
//
// # Design Principles
//
//  1. Models are plain structs persisted as JSON documents; the JSON field
//     names are the document field names.
//  2. Timestamps are Unix epoch milliseconds (int64).
//  3. Relationships use ID strings, never pointers.
package models
