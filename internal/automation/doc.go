// Package automation provides the orchestration engine for Omni Core.
//
// An automation is a user-defined rule: a trigger (schedule, event,
// condition, or manual), an optional gate of named conditions, and an
// ordered list of actions dispatched to downstream services.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                 Catalog (catalog.go)                     │
//	│  Authoritative in-memory store + lifecycle operations    │
//	│  ┌──────────────┐  ┌──────────────┐  ┌──────────────┐  │
//	│  │  Scheduler   │  │  Evaluator   │  │   Executor   │  │
//	│  │(scheduler.go)│  │(conditions.go)│ │(executor.go) │  │
//	│  └──────────────┘  └──────────────┘  └──────────────┘  │
//	│        ▲                                                 │
//	│        │ Due(now)                                        │
//	│  ┌──────────────┐                                        │
//	│  │    Worker    │  goroutine per firing                  │
//	│  │ (worker.go)  │                                        │
//	│  └──────────────┘                                        │
//	└─────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Automation: trigger + condition gate + ordered actions + run stats
//   - Catalog: thread-safe store; Create/Enable/Disable/Delete/Trigger
//   - Scheduler: next-fire tracking for 5-field cron schedules
//   - Evaluator: pluggable condition predicates with AND semantics
//   - Executor: sequential action runner with per-action delays,
//     placeholder resolution, and failure isolation
//   - Worker: background tick loop polling the scheduler
//
// # Execution Path
//
// Every firing — scheduled, event, or manual — goes through
// Catalog.Trigger: enabled check, condition gate, action execution
// outside the catalog lock, then an atomic stats update. A run with a
// failed action still attempts every remaining action; the run counts
// as failed in the success-rate statistic.
//
// # Thread Safety
//
// Catalog, Scheduler, Evaluator, and Worker are safe for concurrent
// use from multiple goroutines.
//
// # Usage
//
//	scheduler := automation.NewScheduler()
//	evaluator := automation.NewEvaluator(meetings)
//	executor := automation.NewExecutor(gateway, log)
//	catalog := automation.NewCatalog(scheduler, executor, evaluator, repo, hub, metrics, log)
//
//	worker := automation.NewWorker(catalog, scheduler, contexts, automation.WorkerConfig{})
//	worker.Start(ctx)
//	defer worker.Stop()
package automation
