// Package services provides stateless domain services of the work order system.
//
// The package includes:
//   - DurationCalculator: derives stage duration, order progress and total
//     duration from stage timestamps
//
// Services here hold no state and never touch persistence. The order aggregate
// calls them while applying a stage transition.
package services
