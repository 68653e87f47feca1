// Package catalog is the read-only lookup of module-type metadata:
// parameter count, connector layout, LED presence, and volume-meter kind.
// The concrete per-type table is a resource the core consults rather than
// computes; Register lets a host load it from wherever it is shipped
// (a data file, an embedded table generated from the device's own
// resource bank) without the core depending on that format.
package catalog

// Direction is a connector's signal direction.
type Direction int

const (
	In Direction = iota
	Out
)

// LEDType reports whether a module type exposes an LED indicator.
type LEDType int

const (
	LEDNone LEDType = iota
	LEDYes
)

// VolumeType reports the shape of a module type's transient volume meter.
type VolumeType int

const (
	VolumeNone VolumeType = iota
	VolumeMono
	VolumeStereo
	VolumeCompress
)

// Connector describes one physical connector slot on a module type, in
// wire order (the order ModuleList/CableList entries reference it by).
type Connector struct {
	Dir Direction
}

// Entry is everything ProtocolCodec and PatchDB need to know about one
// module type.
type Entry struct {
	Name       string
	ParamCount uint32
	Connectors []Connector
	LED        LEDType
	Volume     VolumeType
}

// Catalog is a lookup table keyed by module type. The zero value has no
// entries registered; Unknown types behave per spec (paramCount 0, no
// connectors, no LED, no volume).
type Catalog struct {
	entries map[uint32]Entry
}

// New returns an empty catalog. Register entries with Register, or use
// Default for a small built-in set sufficient to exercise the protocol
// codec without a device-specific resource file present.
func New() *Catalog {
	return &Catalog{entries: make(map[uint32]Entry)}
}

// Register adds or replaces the entry for a module type.
func (c *Catalog) Register(moduleType uint32, e Entry) {
	c.entries[moduleType] = e
}

func (c *Catalog) lookup(moduleType uint32) (Entry, bool) {
	e, ok := c.entries[moduleType]
	return e, ok
}

// ParamCount returns 0 for an unregistered ("unknown sentinel") type.
func (c *Catalog) ParamCount(moduleType uint32) uint32 {
	e, ok := c.lookup(moduleType)
	if !ok {
		return 0
	}
	return e.ParamCount
}

// ConnectorCount returns the number of connectors of any direction.
func (c *Catalog) ConnectorCount(moduleType uint32) uint32 {
	e, ok := c.lookup(moduleType)
	if !ok {
		return 0
	}
	return uint32(len(e.Connectors))
}

// Connector returns the direction of the connector at the given absolute
// index, or false if out of range.
func (c *Catalog) Connector(moduleType uint32, index int) (Direction, bool) {
	e, ok := c.lookup(moduleType)
	if !ok || index < 0 || index >= len(e.Connectors) {
		return In, false
	}
	return e.Connectors[index].Dir, true
}

func (c *Catalog) LEDType(moduleType uint32) LEDType {
	e, ok := c.lookup(moduleType)
	if !ok {
		return LEDNone
	}
	return e.LED
}

func (c *Catalog) VolumeType(moduleType uint32) VolumeType {
	e, ok := c.lookup(moduleType)
	if !ok {
		return VolumeNone
	}
	return e.Volume
}

func (c *Catalog) Name(moduleType uint32) string {
	e, ok := c.lookup(moduleType)
	if !ok {
		return ""
	}
	return e.Name
}

// IOCountFromIndex counts connectors of dir in the prefix [0..=index] and
// returns (count-1), or -1 if the connector at index is not of dir, or if
// index is out of range. This mirrors find_io_count_from_index: the N-th
// (0-based) connector of dir seen while scanning up to and including index.
func (c *Catalog) IOCountFromIndex(moduleType uint32, dir Direction, index int) int {
	e, ok := c.lookup(moduleType)
	if !ok || index < 0 || index >= len(e.Connectors) {
		return -1
	}
	if e.Connectors[index].Dir != dir {
		return -1
	}
	ioCount := -1
	for i := 0; i <= index; i++ {
		if e.Connectors[i].Dir == dir {
			ioCount++
		}
	}
	return ioCount
}

// IndexFromIoCount returns the absolute connector index of the n-th
// (0-based) connector of dir, or -1 if there is no such connector.
func (c *Catalog) IndexFromIoCount(moduleType uint32, dir Direction, n int) int {
	e, ok := c.lookup(moduleType)
	if !ok {
		return -1
	}
	count := 0
	for index, conn := range e.Connectors {
		if conn.Dir == dir {
			if count == n {
				return index
			}
			count++
		}
	}
	return -1
}
