package ecs

import "unsafe"

// iface mirrors the runtime layout of a non-empty interface value so the data
// word of a component pointer can be read without reflection.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
