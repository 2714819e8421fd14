package ecs

import "reflect"

// LockKind distinguishes a resource lock request from a component lock
// request sharing the same underlying type.
type LockKind int

const (
	LockKindResource LockKind = iota
	LockKindComponent
)

// LockID totally orders lock requests so MultiLock can acquire them in a
// fixed order regardless of the order callers list them in, which is what
// makes concurrent multi-locks across overlapping type sets deadlock-free.
type LockID struct {
	Kind LockKind
	Type reflect.Type
}

func (id LockID) less(other LockID) bool {
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Type.String() < other.Type.String()
}

// Locker describes one resource or component lock request. Obtain one via
// ReadResourceOf, WriteResourceOf, ReadComponentOf, or WriteComponentOf,
// and pass a set of them to MultiLock.
type Locker interface {
	id() LockID
	acquire(w *World) (handle any, release func(), err error)
}

type readResourceLocker[T any] struct{}

func (readResourceLocker[T]) id() LockID {
	return LockID{Kind: LockKindResource, Type: reflect.TypeFor[T]()}
}

func (readResourceLocker[T]) acquire(w *World) (any, func(), error) {
	h, err := ReadResource[T](w)
	if err != nil {
		return nil, nil, err
	}
	return h, h.Release, nil
}

type writeResourceLocker[T any] struct{}

func (writeResourceLocker[T]) id() LockID {
	return LockID{Kind: LockKindResource, Type: reflect.TypeFor[T]()}
}

func (writeResourceLocker[T]) acquire(w *World) (any, func(), error) {
	h, err := WriteResource[T](w)
	if err != nil {
		return nil, nil, err
	}
	return h, h.Release, nil
}

type readComponentLocker[T any] struct{}

func (readComponentLocker[T]) id() LockID {
	return LockID{Kind: LockKindComponent, Type: reflect.TypeFor[T]()}
}

func (readComponentLocker[T]) acquire(w *World) (any, func(), error) {
	h, err := ReadComponent[T](w.Ecs())
	if err != nil {
		return nil, nil, err
	}
	return h, h.Release, nil
}

type writeComponentLocker[T any] struct{}

func (writeComponentLocker[T]) id() LockID {
	return LockID{Kind: LockKindComponent, Type: reflect.TypeFor[T]()}
}

func (writeComponentLocker[T]) acquire(w *World) (any, func(), error) {
	h, err := WriteComponent[T](w.Ecs())
	if err != nil {
		return nil, nil, err
	}
	return h, h.Release, nil
}

// ReadResourceOf builds a Locker requesting a read lock on T's resource.
func ReadResourceOf[T any]() Locker { return readResourceLocker[T]{} }

// WriteResourceOf builds a Locker requesting a write lock on T's
// resource.
func WriteResourceOf[T any]() Locker { return writeResourceLocker[T]{} }

// ReadComponentOf builds a Locker requesting a read lock on T's component
// storage.
func ReadComponentOf[T any]() Locker { return readComponentLocker[T]{} }

// WriteComponentOf builds a Locker requesting a write lock on T's
// component storage.
func WriteComponentOf[T any]() Locker { return writeComponentLocker[T]{} }

// MultiLock acquires every locker's lock in a fixed, type-ordered
// sequence — independent of the order lockers are listed in — so that two
// callers requesting overlapping lock sets can never deadlock each other.
// On failure it rolls back every lock already acquired and returns the
// first error. The returned handles are in the same order as the lockers
// argument, not the internal acquisition order.
func MultiLock(w *World, lockers ...Locker) (handles []any, release func(), err error) {
	type indexed struct {
		pos    int
		locker Locker
	}
	ordered := make([]indexed, len(lockers))
	for i, l := range lockers {
		ordered[i] = indexed{pos: i, locker: l}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].locker.id().less(ordered[j-1].locker.id()); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	handles = make([]any, len(lockers))
	releases := make([]func(), 0, len(lockers))
	bits := make([]uint32, 0, len(lockers))

	rollback := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
		for _, bit := range bits {
			w.markUnlocked(bit)
		}
	}

	for _, entry := range ordered {
		id := entry.locker.id()
		handle, rel, acquireErr := entry.locker.acquire(w)
		if acquireErr != nil {
			rollback()
			return nil, nil, acquireErr
		}
		bit := w.slot(id.Type)
		w.markLocked(bit)
		bits = append(bits, bit)
		releases = append(releases, rel)
		handles[entry.pos] = handle
	}

	return handles, rollback, nil
}

// Lock1 acquires a single lock and type-asserts its handle back to A.
func Lock1[A any](w *World, a Locker) (A, func(), error) {
	handles, release, err := MultiLock(w, a)
	if err != nil {
		var zero A
		return zero, nil, err
	}
	return handles[0].(A), release, nil
}

// Lock2 acquires two locks and type-asserts their handles back to A, B.
func Lock2[A, B any](w *World, a, b Locker) (A, B, func(), error) {
	handles, release, err := MultiLock(w, a, b)
	if err != nil {
		var za A
		var zb B
		return za, zb, nil, err
	}
	return handles[0].(A), handles[1].(B), release, nil
}

// Lock3 acquires three locks and type-asserts their handles back to A, B, C.
func Lock3[A, B, C any](w *World, a, b, c Locker) (A, B, C, func(), error) {
	handles, release, err := MultiLock(w, a, b, c)
	if err != nil {
		var za A
		var zb B
		var zc C
		return za, zb, zc, nil, err
	}
	return handles[0].(A), handles[1].(B), handles[2].(C), release, nil
}

// Lock4 acquires four locks and type-asserts their handles back to A, B, C, D.
func Lock4[A, B, C, D any](w *World, a, b, c, d Locker) (A, B, C, D, func(), error) {
	handles, release, err := MultiLock(w, a, b, c, d)
	if err != nil {
		var za A
		var zb B
		var zc C
		var zd D
		return za, zb, zc, zd, nil, err
	}
	return handles[0].(A), handles[1].(B), handles[2].(C), handles[3].(D), release, nil
}

// Lock5 acquires five locks and type-asserts their handles back to A..E.
func Lock5[A, B, C, D, E any](w *World, a, b, c, d, e Locker) (A, B, C, D, E, func(), error) {
	handles, release, err := MultiLock(w, a, b, c, d, e)
	if err != nil {
		var za A
		var zb B
		var zc C
		var zd D
		var ze E
		return za, zb, zc, zd, ze, nil, err
	}
	return handles[0].(A), handles[1].(B), handles[2].(C), handles[3].(D), handles[4].(E), release, nil
}

// Lock6 acquires six locks and type-asserts their handles back to A..F.
func Lock6[A, B, C, D, E, F any](w *World, a, b, c, d, e, f Locker) (A, B, C, D, E, F, func(), error) {
	handles, release, err := MultiLock(w, a, b, c, d, e, f)
	if err != nil {
		var za A
		var zb B
		var zc C
		var zd D
		var ze E
		var zf F
		return za, zb, zc, zd, ze, zf, nil, err
	}
	return handles[0].(A), handles[1].(B), handles[2].(C), handles[3].(D), handles[4].(E), handles[5].(F), release, nil
}
