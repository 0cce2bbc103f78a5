package ecs_test

import (
	"context"
	"fmt"

	"github.com/plus3/orrery/ecs"
)

func ExampleScheduler_Go() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	scheduler := ecs.NewScheduler(storage)
	defer scheduler.Close()

	scheduler.Go("ticker", func(ctx context.Context, h *ecs.TaskHandle) error {
		for {
			if err := h.Sleep(0.5); err != nil {
				return err
			}
			fmt.Printf("woke at %.1f\n", h.Frame().Time)
		}
	})

	for range 4 {
		scheduler.Once(0.25)
	}
	// Output:
	// woke at 0.5
	// woke at 1.0
}

func ExampleStorage_DeleteRecursive() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	storage := ecs.NewStorage(registry)

	sun := storage.Spawn(Name{Value: "sun"})
	planet := storage.SetParent(storage.Spawn(Name{Value: "planet"}), sun)
	storage.SetParent(storage.Spawn(Name{Value: "moon"}), planet)
	storage.Spawn(Name{Value: "comet"})

	storage.DeleteRecursive(sun)

	for n := range ecs.NewView[struct{ *Name }](storage).Values() {
		fmt.Println(n.Value)
	}
	// Output:
	// comet
}
