// Package task provides task context resolution and scheduling.
//
// Given the active editing position and a catalog of runnable task
// definitions, the package produces a concrete, fully-substituted execution
// environment, resolves an unambiguous working directory, dispatches a
// chosen task, and maintains a single-slot scheduling history for rerun.
//
// # Architecture
//
// The flow for a single scheduling attempt:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                     Context Resolver                             │
//	│  - Row/Column/SelectedText from the active editing surface       │
//	│  - File path and owning worktree root                            │
//	│  - Extra variables from the language context provider            │
//	└──────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌──────────────────────────────────────────────────────────────────┐
//	│                        Scheduler                                 │
//	│  - Asks the task to prepare an execution spec                    │
//	│  - Records (task, context) in the inventory on success           │
//	│  - Emits a single SpawnRequest to the external executor          │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Variables
//
// Task commands reference variables with ${NAME} syntax. Well-known names
// (ROW, COLUMN, SELECTED_TEXT, FILE, WORKTREE_ROOT, SYMBOL) are resolved
// from the editing position; language providers may add or override names.
// A referenced variable missing from the environment makes the task
// unpreparable for that context: the scheduler treats it as nothing to
// schedule, not as an error.
//
// # History
//
// The inventory records the last successfully prepared (task, context)
// pair. Rerun either reuses the stored context byte-for-byte or
// re-resolves a fresh one, including the working directory.
package task
