package catalog

import "testing"

func TestUnknownTypeIsZeroValue(t *testing.T) {
	c := New()
	if got := c.ParamCount(999); got != 0 {
		t.Errorf("ParamCount(unknown) = %d, want 0", got)
	}
	if got := c.ConnectorCount(999); got != 0 {
		t.Errorf("ConnectorCount(unknown) = %d, want 0", got)
	}
	if got := c.LEDType(999); got != LEDNone {
		t.Errorf("LEDType(unknown) = %v, want LEDNone", got)
	}
	if got := c.VolumeType(999); got != VolumeNone {
		t.Errorf("VolumeType(unknown) = %v, want VolumeNone", got)
	}
}

func TestIOCountFromIndex(t *testing.T) {
	c := New()
	c.Register(1, Entry{
		Connectors: []Connector{
			{Dir: In}, {Dir: Out}, {Dir: In}, {Dir: Out}, {Dir: Out},
		},
	})
	cases := []struct {
		dir   Direction
		index int
		want  int
	}{
		{In, 0, 0},
		{In, 2, 1},
		{Out, 1, 0},
		{Out, 4, 2},
		{Out, 0, -1}, // index 0 is In
		{In, 1, -1},  // index 1 is Out
	}
	for _, c2 := range cases {
		if got := c.IOCountFromIndex(1, c2.dir, c2.index); got != c2.want {
			t.Errorf("IOCountFromIndex(dir=%v, index=%d) = %d, want %d", c2.dir, c2.index, got, c2.want)
		}
	}
}

func TestIndexFromIoCount(t *testing.T) {
	c := New()
	c.Register(1, Entry{
		Connectors: []Connector{
			{Dir: In}, {Dir: Out}, {Dir: In}, {Dir: Out}, {Dir: Out},
		},
	})
	cases := []struct {
		dir  Direction
		n    int
		want int
	}{
		{In, 0, 0},
		{In, 1, 2},
		{In, 2, -1},
		{Out, 0, 1},
		{Out, 2, 4},
		{Out, 3, -1},
	}
	for _, c2 := range cases {
		if got := c.IndexFromIoCount(1, c2.dir, c2.n); got != c2.want {
			t.Errorf("IndexFromIoCount(dir=%v, n=%d) = %d, want %d", c2.dir, c2.n, got, c2.want)
		}
	}
}

func TestRoundTripIndexIoCount(t *testing.T) {
	c := Default()
	for moduleType := uint32(1); moduleType <= 5; moduleType++ {
		count := c.ConnectorCount(moduleType)
		for index := 0; index < int(count); index++ {
			dir, ok := c.Connector(moduleType, index)
			if !ok {
				t.Fatalf("type %d: Connector(%d) missing", moduleType, index)
			}
			n := c.IOCountFromIndex(moduleType, dir, index)
			if n < 0 {
				t.Fatalf("type %d: IOCountFromIndex(%d) = %d, want >= 0", moduleType, index, n)
			}
			back := c.IndexFromIoCount(moduleType, dir, n)
			if back != index {
				t.Errorf("type %d: round trip index %d -> ioCount %d -> index %d", moduleType, index, n, back)
			}
		}
	}
}
