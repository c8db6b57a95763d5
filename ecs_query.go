package campus

import (
	"reflect"
)

// Queries walk every archetype that stores all required component types.
// Types passed as optionals may be missing; the callback then receives nil
// for them. Returning false from the callback stops the walk.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

// column resolves the typed storage of one query argument in an archetype.
// skip reports that the archetype does not qualify.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (data []T, missing bool, skip bool) {
	if compData, ok := arch.componentData[id]; ok {
		return compData.([]T), false, false
	}
	if _, ok := opt[id]; ok {
		return nil, true, false
	}
	return nil, false, true
}

func at[T any](data []T, missing bool, r row) *T {
	if missing {
		return nil
	}
	return &data[r]
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, noA, skip := column[A](arch, id1, opt)
		if skip {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, noA, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, noA, skip := column[A](arch, id1, opt)
		if skip {
			continue
		}
		comps2, noB, skip := column[B](arch, id2, opt)
		if skip {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, noA, r), at(comps2, noB, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, noA, skip := column[A](arch, id1, opt)
		if skip {
			continue
		}
		comps2, noB, skip := column[B](arch, id2, opt)
		if skip {
			continue
		}
		comps3, noC, skip := column[C](arch, id3, opt)
		if skip {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, noA, r), at(comps2, noB, r), at(comps3, noC, r)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	id4 := identifyComponent[D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, noA, skip := column[A](arch, id1, opt)
		if skip {
			continue
		}
		comps2, noB, skip := column[B](arch, id2, opt)
		if skip {
			continue
		}
		comps3, noC, skip := column[C](arch, id3, opt)
		if skip {
			continue
		}
		comps4, noD, skip := column[D](arch, id4, opt)
		if skip {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, at(comps1, noA, r), at(comps2, noB, r), at(comps3, noC, r), at(comps4, noD, r)) {
				return
			}
		}
	}
}

// GetComponent returns a pointer to the entity's component of type T.
// The pointer must not be kept across frames: flushing commands may move
// the entity to another archetype.
func GetComponent[T any](cmd *Commands, eid EntityId) (*T, bool) {
	ptr := cmd.app.ecs.componentPtr(eid, reflect.TypeOf((*T)(nil)).Elem())
	if ptr == nil {
		return nil, false
	}
	return ptr.(*T), true
}

// HasEntity reports whether the entity exists after the last flush.
func HasEntity(cmd *Commands, eid EntityId) bool {
	return cmd.app.ecs.hasEntity(eid)
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		cType := reflect.TypeOf(c)
		if cType.Kind() == reflect.Pointer {
			cType = cType.Elem()
		}
		res[ecs.getComponentId(cType)] = struct{}{}
	}
	return res
}

func identifyComponent[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeOf((*A)(nil)).Elem())
}
