// Package order provides the Order aggregate root of the work order system and
// the stage entities it owns.
//
// The package includes:
//   - Order: the aggregate root tracking a client's work item through its stages
//   - Stage: one unit of sequential work, Pending -> InProgress -> Completed
//   - StageTemplate: the fixed, ordered stage names applied to new orders
//   - Status and StageStatus: the order and stage state machines
//
// Key business rules:
//   - An order gets one Pending stage per template entry, in template order
//   - A stage is started once and completed once; Completed is terminal
//   - A stage that was never started cannot be completed
//   - Order status is derived from its stages: New -> InProgress -> Done
//   - Completion time and total duration are fixed exactly once, when the
//     last stage completes
//   - A failed operation leaves the aggregate unchanged
package order
