package game

import "testing"

func TestGameState_CloneIsDeep(t *testing.T) {
	s := NewGameState(1000)
	s.Snakes["a"] = &Snake{ID: "a", Alive: true, Trail: []Point{{X: 1, Y: 2}}}
	s.Food = append(s.Food, &Food{X: 5, Y: 5, Value: 1})
	s.SetSegments("a", []Point{{X: 1, Y: 2}})

	clone := s.Clone()

	clone.Snakes["a"].Trail[0].X = 99
	clone.Food[0].X = 99
	clone.SetSegments("a", []Point{{X: 99, Y: 99}})

	if s.Snakes["a"].Trail[0].X == 99 {
		t.Error("mutating clone's snake trail affected the original")
	}
	if s.Food[0].X == 99 {
		t.Error("mutating clone's food affected the original")
	}
	if s.Segments("a")[0].X == 99 {
		t.Error("mutating clone's segment cache affected the original")
	}
}

func TestGameState_Clone_Nil(t *testing.T) {
	var s *GameState
	if s.Clone() != nil {
		t.Error("cloning a nil GameState should return nil")
	}
}

func TestAliveSnakeIDs_SortedAndFiltered(t *testing.T) {
	s := NewGameState(1000)
	s.Snakes["charlie"] = &Snake{ID: "charlie", Alive: true}
	s.Snakes["alice"] = &Snake{ID: "alice", Alive: true}
	s.Snakes["bob"] = &Snake{ID: "bob", Alive: false}

	got := s.AliveSnakeIDs()
	want := []string{"alice", "charlie"}
	if len(got) != len(want) {
		t.Fatalf("AliveSnakeIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AliveSnakeIDs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAllSnakeIDsSorted_IncludesDead(t *testing.T) {
	s := NewGameState(1000)
	s.Snakes["b"] = &Snake{ID: "b", Alive: false}
	s.Snakes["a"] = &Snake{ID: "a", Alive: true}

	got := s.AllSnakeIDsSorted()
	want := []string{"a", "b"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("AllSnakeIDsSorted() = %v, want %v", got, want)
	}
}

func TestDistAndDistSq(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 3, Y: 4}
	if got := DistSq(a, b); got != 25 {
		t.Errorf("DistSq = %v, want 25", got)
	}
	if got := Dist(a, b); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestSnake_Length(t *testing.T) {
	s := &Snake{SegmentCount: 7}
	if s.Length() != 7 {
		t.Errorf("Length() = %d, want 7", s.Length())
	}
}
