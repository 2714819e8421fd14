package ecs

// Config holds global configuration for the ecs package.
var Config config = config{denseByDefault: true}

type config struct {
	denseByDefault bool
}

// SetDefaultStorage configures which storage backend RegisterComponent
// picks when a caller doesn't choose one explicitly via
// RegisterComponentAs. Defaults to dense.
func (c *config) SetDefaultStorage(dense bool) {
	c.denseByDefault = dense
}
