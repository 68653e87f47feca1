package catalog

// Default returns a small built-in catalog covering the module types
// exercised by this repository's own tests and examples. A production
// host is expected to Register the full type table from wherever it
// ships (the device's resource bank is out of scope here).
func Default() *Catalog {
	c := New()
	c.Register(1, Entry{
		Name:       "Osc Mini",
		ParamCount: 6,
		Connectors: []Connector{{Dir: In}, {Dir: Out}, {Dir: Out}},
		LED:        LEDNone,
		Volume:     VolumeNone,
	})
	c.Register(2, Entry{
		Name:       "Filter Classic",
		ParamCount: 8,
		Connectors: []Connector{{Dir: In}, {Dir: In}, {Dir: Out}},
		LED:        LEDNone,
		Volume:     VolumeMono,
	})
	c.Register(3, Entry{
		Name:       "Mixer 4-1",
		ParamCount: 5,
		Connectors: []Connector{{Dir: In}, {Dir: In}, {Dir: In}, {Dir: In}, {Dir: Out}},
		LED:        LEDNone,
		Volume:     VolumeStereo,
	})
	c.Register(4, Entry{
		Name:       "Env ADSR",
		ParamCount: 4,
		Connectors: []Connector{{Dir: In}, {Dir: Out}},
		LED:        LEDYes,
		Volume:     VolumeNone,
	})
	c.Register(5, Entry{
		Name:       "Out Mono",
		ParamCount: 1,
		Connectors: []Connector{{Dir: In}},
		LED:        LEDNone,
		Volume:     VolumeCompress,
	})
	return c
}
