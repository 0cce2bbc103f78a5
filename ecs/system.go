package ecs

// System is a per-tick callback over a filtered set of records.
// Exported Query and Singleton fields are bound to the storage when the system
// is registered with a Scheduler, and queries are refreshed before every
// Execute. Any other fields are system state and persist between ticks.
type System interface {
	Execute(frame *UpdateFrame)
}
