package ecs

// factory implements the factory pattern for ecs package constructors.
type factory struct{}

// Factory is the global factory instance for creating ecs containers,
// worlds, and entity sets.
var Factory factory

// NewWorld creates a new World with no resources and no registered
// components.
func (f factory) NewWorld() *World {
	return newWorld()
}

// NewEcs creates a new, empty component container.
func (f factory) NewEcs() *Ecs {
	return NewEcs()
}

// NewEntitySet creates a new, empty EntitySet.
func (f factory) NewEntitySet() *EntitySet {
	return NewEntitySet()
}
