package morton

import "testing"

func TestLevelAfterChildSequence(t *testing.T) {
	k := Root()
	if k.Level() != 0 {
		t.Fatalf("root level = %d, want 0", k.Level())
	}
	for i := 0; i < MaxLevel; i++ {
		k = k.Child(4)
		if k.Level() != i+1 {
			t.Fatalf("after %d children, level = %d, want %d", i+1, k.Level(), i+1)
		}
	}

	k = Root()
	for i := 0; i < MaxLevel; i++ {
		k = k.Child(uint64(i) % 8)
		if k.Level() != i+1 {
			t.Fatalf("after %d children (varying index), level = %d, want %d", i+1, k.Level(), i+1)
		}
	}
}

func TestComponentAllOnes(t *testing.T) {
	k := Root()
	for i := 0; i < 7; i++ {
		k = k.Child(4) // x=1,y=0,z=0 every step
	}
	want := uint16(1<<7 - 1)
	if x := k.Component(AxisX, 7); x != want {
		t.Errorf("x = %d, want %d", x, want)
	}

	k = Root()
	for i := 0; i < MaxLevel; i++ {
		k = k.Child(4)
	}
	want = uint16(1<<16 - 1)
	if x := k.Component(AxisX, MaxLevel); x != want {
		t.Errorf("x at level 16 = %d, want %d", x, want)
	}
}

func TestComponentY(t *testing.T) {
	k := Root()
	for i := 0; i < 5; i++ {
		k = k.Child(2) // y=1,x=0,z=0
	}
	if y := k.Component(AxisY, 5); y != uint16(1<<5-1) {
		t.Errorf("y = %d, want %d", y, uint16(1<<5-1))
	}
}

func TestComponentZ(t *testing.T) {
	k := Root()
	for i := 0; i < 5; i++ {
		k = k.Child(1) // z=1
	}
	if z := k.Component(AxisZ, 5); z != uint16(1<<5-1) {
		t.Errorf("z = %d, want %d", z, uint16(1<<5-1))
	}
}

func TestComponentAllAxesTogether(t *testing.T) {
	k := Root()
	for i := 0; i < 7; i++ {
		k = k.Child(7) // 0b111: all axes set
	}
	want := uint16(1<<7 - 1)
	if x, y, z := k.Component(AxisX, 7), k.Component(AxisY, 7), k.Component(AxisZ, 7); x != want || y != want || z != want {
		t.Errorf("got x=%d y=%d z=%d, want all %d", x, y, z, want)
	}

	k = Root()
	for i := 0; i < MaxLevel; i++ {
		k = k.Child(7)
	}
	want = uint16(1<<16 - 1)
	if x, y, z := k.Component(AxisX, MaxLevel), k.Component(AxisY, MaxLevel), k.Component(AxisZ, MaxLevel); x != want || y != want || z != want {
		t.Errorf("got x=%d y=%d z=%d, want all %d", x, y, z, want)
	}
}

// TestComponentMixedSequence checks that a child index cycling 0..7
// over 16 steps produces a bit-sliced pattern per axis, because each
// axis's bit at step i is (i%8 >> offset) & 1.
func TestComponentMixedSequence(t *testing.T) {
	k := Root()
	for i := 0; i < 16; i++ {
		k = k.Child(uint64(i) % 8)
	}
	if x := k.Component(AxisX, 16); x != 0b0000111100001111 {
		t.Errorf("x = %016b, want %016b", x, 0b0000111100001111)
	}
	if y := k.Component(AxisY, 16); y != 0b0011001100110011 {
		t.Errorf("y = %016b, want %016b", y, 0b0011001100110011)
	}
	if z := k.Component(AxisZ, 16); z != 0b0101010101010101 {
		t.Errorf("z = %016b, want %016b", z, 0b0101010101010101)
	}

	k = Root()
	for i := 0; i < 16; i++ {
		k = k.Child((uint64(i) % 4) + 3)
	}
	if x := k.Component(AxisX, 16); x != 0b0111011101110111 {
		t.Errorf("x = %016b, want %016b", x, 0b0111011101110111)
	}
	if y := k.Component(AxisY, 16); y != 0b1001100110011001 {
		t.Errorf("y = %016b, want %016b", y, 0b1001100110011001)
	}
	if z := k.Component(AxisZ, 16); z != 0b1010101010101010 {
		t.Errorf("z = %016b, want %016b", z, 0b1010101010101010)
	}
}

func TestFromComponentsRoundTrip(t *testing.T) {
	k := Root()
	for i := 0; i < 10; i++ {
		k = k.Child(uint64(i*3) % 8)
	}
	level := k.Level()
	x := k.Component(AxisX, level)
	y := k.Component(AxisY, level)
	z := k.Component(AxisZ, level)
	rebuilt := FromComponents(x, y, z, level)
	if rebuilt != k {
		t.Errorf("FromComponents(Component(k)) = %d, want %d", rebuilt, k)
	}
}

func TestNeighbors26InteriorCount(t *testing.T) {
	// An interior cell at level 3 (coordinates away from any boundary)
	// has all 26 neighbors.
	level := 3
	k := FromComponents(4, 4, 4, level)
	neighbors := k.Neighbors26()
	if len(neighbors) != 26 {
		t.Errorf("interior cell has %d neighbors, want 26", len(neighbors))
	}
}

func TestNeighbors26CornerCount(t *testing.T) {
	// The (0,0,0) corner cell only has neighbors in the +1 direction on
	// each axis: 2^3 - 1 = 7 non-self combinations.
	level := 3
	k := FromComponents(0, 0, 0, level)
	neighbors := k.Neighbors26()
	if len(neighbors) != 7 {
		t.Errorf("corner cell has %d neighbors, want 7", len(neighbors))
	}
}

func TestNeighbors26AreAtSameLevel(t *testing.T) {
	level := 4
	k := FromComponents(3, 5, 2, level)
	for _, n := range k.Neighbors26() {
		if n.Level() != level {
			t.Errorf("neighbor %d has level %d, want %d", n, n.Level(), level)
		}
	}
}
