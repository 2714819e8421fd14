package scan

import "github.com/driftcore/ecs/ecserr"

// Singleton drains at most two items from s and requires exactly one.
func Singleton[I any](s Scanner[I]) (I, error) {
	item, _, ok := s.Scan(nil)
	if !ok {
		var zero I
		return zero, ecserr.SingletonMissingError{}
	}
	if _, _, ok := s.Scan(nil); ok {
		var zero I
		return zero, ecserr.SingletonMultipleError{}
	}
	return item, nil
}
