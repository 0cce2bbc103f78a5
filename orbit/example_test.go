package orbit_test

import (
	"fmt"

	"github.com/plus3/orrery/orbit"
)

func ExampleDecay() {
	lifespan := float32(orbit.DefaultMarkerLifespan)
	for _, dt := range []float32{1, 2, 2, 0.5} {
		next, scale, alive := orbit.Decay(lifespan, dt, orbit.DefaultMarkerLifespan)
		fmt.Printf("lifespan %.1f scale %.2f alive %t\n", next, scale, alive)
		lifespan = next
	}
	// Output:
	// lifespan 4.0 scale 0.80 alive true
	// lifespan 2.0 scale 0.40 alive true
	// lifespan 0.0 scale 0.00 alive true
	// lifespan -0.5 scale 0.00 alive false
}
