package orbit

import (
	"github.com/plus3/orrery/ecs"
)

// OrbitProgressSystem advances every body's orbital angle. It runs before
// OrbitPositionSystem so positions always come from this tick's progress.
type OrbitProgressSystem struct {
	Bodies ecs.Query[struct{ *Orbit }]
}

func (s *OrbitProgressSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for body := range s.Bodies.Iter() {
		body.Progress = Advance(body.Progress, body.Speed, dt)
	}
}

// OrbitPositionSystem places every body on its orbit.
type OrbitPositionSystem struct {
	Bodies ecs.Query[struct {
		*Orbit
		*Translation
	}]
}

func (s *OrbitPositionSystem) Execute(frame *ecs.UpdateFrame) {
	for body := range s.Bodies.Iter() {
		body.Translation.Vec3 = PositionFor(body.Radius, body.Progress)
	}
}

type transformNode struct {
	ecs.EntityId
	*Translation
	World  *WorldTranslation `ecs:"optional"`
	Parent *ecs.Parent       `ecs:"optional"`
}

// TransformSystem computes WorldTranslation for every record with a
// Translation by composing it with its ancestors'. A parent that no longer
// exists, or has no Translation, counts as the origin.
type TransformSystem struct {
	Nodes ecs.Query[transformNode]

	nodes map[ecs.EntityId]transformNode
	world map[ecs.EntityId]Vec3
}

func (s *TransformSystem) Execute(frame *ecs.UpdateFrame) {
	if s.nodes == nil {
		s.nodes = make(map[ecs.EntityId]transformNode)
		s.world = make(map[ecs.EntityId]Vec3)
	}
	clear(s.nodes)
	clear(s.world)

	for node := range s.Nodes.Iter() {
		s.nodes[node.EntityId] = node
	}

	for id, node := range s.nodes {
		w := s.resolve(frame.Storage, id, 0)
		if node.World != nil {
			node.World.Vec3 = w
		} else {
			frame.Commands.AddComponent(id, WorldTranslation{w})
		}
	}
}

// resolve walks up the parent chain depth first. depth bounds the walk so a
// parent cycle terminates.
func (s *TransformSystem) resolve(storage *ecs.Storage, id ecs.EntityId, depth int) Vec3 {
	if w, ok := s.world[id]; ok {
		return w
	}

	node := s.nodes[id]
	w := node.Translation.Vec3
	if node.Parent != nil && depth < len(s.nodes) {
		if parent, ok := storage.ResolveEntityRef(node.Parent.Ref); ok {
			if _, tracked := s.nodes[parent]; tracked {
				w = s.resolve(storage, parent, depth+1).Add(w)
			}
		}
	}

	s.world[id] = w
	return w
}

// LifespanSystem ages markers, shrinking them as they go, and destroys them
// together with their descendants once their time is up.
type LifespanSystem struct {
	Markers ecs.Query[struct {
		ecs.EntityId
		*Lifespan
		Scale *Scale `ecs:"optional"`
	}]
	Settings ecs.Singleton[Settings]
	Stats    ecs.Singleton[TrailStats]
}

func (s *LifespanSystem) Execute(frame *ecs.UpdateFrame) {
	full := float32(DefaultMarkerLifespan)
	if settings := s.Settings.Get(); settings != nil && settings.MarkerLifespan > 0 {
		full = settings.MarkerLifespan
	}
	dt := float32(frame.DeltaTime)

	var writer ecs.RecordWriter = frame.Commands
	var expired int64

	for marker := range s.Markers.Iter() {
		next, scale, alive := Decay(float32(*marker.Lifespan), dt, full)
		if !alive {
			writer.DeleteRecursive(marker.EntityId)
			expired++
			continue
		}

		*marker.Lifespan = Lifespan(next)
		if marker.Scale != nil {
			*marker.Scale = Scale(scale)
		} else {
			writer.AddComponent(marker.EntityId, Scale(scale))
		}
	}

	if stats := s.Stats.Get(); stats != nil {
		stats.Expired += expired
	}
}
