// Package fail defines the sentinel errors every public container
// returns (spec §7). They are plain errors.New values, not a custom
// error type: callers are expected to compare with errors.Is, and
// %w-wrapping from a façade method is always safe.
package fail

import "errors"

// ErrKeyMissing is returned by an operation that requires an existing
// key (e.g. a strict Get variant) when the key is absent.
var ErrKeyMissing = errors.New("gopersistent: key not present")

// ErrIndexOutOfRange is returned by IndexedList operations given an
// index outside [0, Count).
var ErrIndexOutOfRange = errors.New("gopersistent: index out of range")

// ErrCapacityExceeded is returned when a SmallArrayMap operation would
// grow the map past its fixed capacity (spec §4.5); callers are
// expected to promote to HashDict instead of retrying.
var ErrCapacityExceeded = errors.New("gopersistent: small array map capacity exceeded")

// ErrComparisonFailure names the failure of a host HashFunc, EqualFunc
// or LessFunc. No container in this module returns it: a panic raised
// by such a callback propagates unchanged, with no recover anywhere in
// the module. The sentinel is there for callers that recover around
// their own callbacks.
var ErrComparisonFailure = errors.New("gopersistent: key comparison failed")

// ErrEmptyQuery is returned by queries that are only meaningful on a
// non-empty container (SortedDict First and Last, IndexedList Pop) when
// the receiver holds no entries.
var ErrEmptyQuery = errors.New("gopersistent: query on empty container")
