package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPoseComponent struct {
	X, Y, Angle float64
}

type testTagComponent struct {
	Name string
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 != 1 || id2 != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", id1, id2)
	}
	if !em.Alive(id1) || em.Count() != 2 {
		t.Error("created entities should be alive")
	}
}

func TestComponentLifecycle(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if HasComponent[*testPoseComponent](em, id) {
		t.Error("Should not have component before adding")
	}

	pose := &testPoseComponent{X: 100, Y: 200}
	if !AddComponent(em, id, pose) {
		t.Fatal("AddComponent on live entity failed")
	}

	got, ok := GetComponent[*testPoseComponent](em, id)
	if !ok || got != pose {
		t.Fatalf("GetComponent = %v, %v", got, ok)
	}

	// 值类型与指针类型是不同的组件
	if HasComponent[testPoseComponent](em, id) {
		t.Error("value and pointer types must not alias")
	}

	RemoveComponent[*testPoseComponent](em, id)
	if HasComponent[*testPoseComponent](em, id) {
		t.Error("component still present after RemoveComponent")
	}

	if AddComponent(em, EntityID(99), pose) {
		t.Error("AddComponent on missing entity should fail")
	}
}

func TestDeferredDestroy(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()
	AddComponent(em, a, &testTagComponent{Name: "a"})

	var removed []EntityID
	em.OnRemove(func(id EntityID) {
		// 回调执行时组件仍然可用
		if _, ok := GetComponent[*testTagComponent](em, id); !ok && id == a {
			t.Error("component gone before OnRemove callback")
		}
		removed = append(removed, id)
	})

	em.DestroyEntity(a)
	em.DestroyEntity(a)
	if !em.Alive(a) {
		t.Fatal("DestroyEntity must be deferred")
	}

	if n := em.RemoveMarkedEntities(); n != 1 {
		t.Errorf("removed %d entities, want 1", n)
	}
	if em.Alive(a) || !em.Alive(b) {
		t.Error("wrong entity removed")
	}
	if len(removed) != 1 || removed[0] != a {
		t.Errorf("OnRemove calls = %v", removed)
	}

	em.DestroyEntity(a)
	if n := em.RemoveMarkedEntities(); n != 0 {
		t.Error("destroying a removed entity should be a no-op")
	}
}

func TestQueryOrder(t *testing.T) {
	em := NewEntityManager()
	var tagged []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		if i%3 == 0 {
			AddComponent(em, id, &testTagComponent{})
			AddComponent(em, id, &testPoseComponent{})
			tagged = append(tagged, id)
		}
	}

	got := Query[*testTagComponent](em)
	if !reflect.DeepEqual(got, tagged) {
		t.Errorf("Query = %v, want %v", got, tagged)
	}

	both := em.EntitiesWith(reflect.TypeFor[*testTagComponent](), reflect.TypeFor[*testPoseComponent]())
	if !reflect.DeepEqual(both, tagged) {
		t.Errorf("EntitiesWith = %v, want %v", both, tagged)
	}

	all := em.Entities()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("Entities not sorted: %v", all)
		}
	}
}

func BenchmarkQuery(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 1000; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPoseComponent{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Query[*testPoseComponent](em)
	}
}
