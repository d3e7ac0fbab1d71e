// Package service contains the application use cases. TaskService applies
// the task rules (defaults, validation, owner scoping) on top of a
// store.TaskStore; it receives its dependencies through constructor
// injection and never depends on a concrete storage engine.
package service
