package campus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	query := Query2[Comp1, Comp2]{ecs: &ecs}

	type result struct {
		a Comp1
		b Comp2
	}
	got := map[EntityId]result{}
	query.Map(func(entityId EntityId, comp1 *Comp1, comp2 *Comp2) bool {
		got[entityId] = result{*comp1, *comp2}
		return true
	})

	assert.Equal(t, map[EntityId]result{
		id2: {Comp1{a: 2}, Comp2{b: 1.37}},
		id3: {Comp1{a: 3}, Comp2{b: 4.20}},
	}, got)
}

func TestQuery_Optionals(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b int }

	ecs := MakeEcs()
	withB := ecs.addEntity(Comp1{a: 1}, Comp2{b: 7})
	withoutB := ecs.addEntity(Comp1{a: 2})

	query := Query2[Comp1, Comp2]{ecs: &ecs}
	seen := map[EntityId]*Comp2{}
	query.Map(func(entityId EntityId, comp1 *Comp1, comp2 *Comp2) bool {
		seen[entityId] = comp2
		return true
	}, Comp2{})

	assert.Len(t, seen, 2)
	assert.Nil(t, seen[withoutB])
	if assert.NotNil(t, seen[withB]) {
		assert.Equal(t, 7, seen[withB].b)
	}
}

func TestQuery_StopsWhenCallbackReturnsFalse(t *testing.T) {
	type Comp1 struct{ a int }

	ecs := MakeEcs()
	for i := 0; i < 5; i++ {
		ecs.addEntity(Comp1{a: i})
	}

	calls := 0
	Query1[Comp1]{ecs: &ecs}.Map(func(entityId EntityId, c *Comp1) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestGetComponent_PointsIntoStorage(t *testing.T) {
	type Health struct{ hp int }

	app := NewAppBuilder().Build()
	cmd := app.Commands()
	eid := cmd.AddEntity(Health{hp: 10})
	app.FlushCommands()

	h, ok := GetComponent[Health](cmd, eid)
	assert.True(t, ok)
	h.hp = 3

	again, _ := GetComponent[Health](cmd, eid)
	assert.Equal(t, 3, again.hp)

	_, ok = GetComponent[Health](cmd, eid+100)
	assert.False(t, ok)
}
