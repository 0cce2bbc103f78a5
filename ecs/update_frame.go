package ecs

// UpdateFrame is handed to every system and resumed task during one tick.
type UpdateFrame struct {
	// DeltaTime is the simulated time elapsed since the previous tick, in seconds.
	DeltaTime float64
	// Time is the simulated clock after this tick's delta was applied.
	Time     float64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt, now float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Time:      now,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
