// Package operator holds the Operator entity: the person who starts stages.
//
// Operators are not owned by orders. A stage keeps only the operator's id, and
// read models resolve display names through the operator repository.
package operator
