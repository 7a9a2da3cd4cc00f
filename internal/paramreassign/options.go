package paramreassign

// Options configures a Scanner.
type Options struct {
	// Accumulators lists method names whose callback's first parameter is
	// exempt, e.g. "reduce". Matching is exact and case-sensitive.
	Accumulators []string `yaml:"accumulators" toml:"accumulators" json:"accumulators"`

	// Props enables reporting of writes to properties reachable from a
	// parameter.
	Props bool `yaml:"props" toml:"props" json:"props"`
}
