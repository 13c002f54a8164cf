package querycache

import (
	"net/url"
	"slices"
	"strings"
)

// Key identifies a cache entry: a resource family path plus canonical parameters.
// Structurally equal parameters produce equal keys.
type Key struct {
	family []string
	params string
}

// NewKey returns a key for the family path, e.g. NewKey("employees", "list").
func NewKey(family ...string) Key {
	return Key{family: slices.Clone(family)}
}

// With returns k with params attached. url.Values.Encode sorts by name, which makes the encoding canonical.
func (k Key) With(params url.Values) Key {
	return Key{family: slices.Clone(k.family), params: params.Encode()}
}

func (k Key) Family() []string {
	return slices.Clone(k.family)
}

// Topic is the first family segment; cache events are published there.
func (k Key) Topic() string {
	if len(k.family) == 0 {
		return ""
	}
	return k.family[0]
}

func (k Key) Params() string {
	return k.params
}

func (k Key) String() string {
	segs := make([]string, len(k.family))
	for i, s := range k.family {
		segs[i] = url.PathEscape(s)
	}
	path := strings.Join(segs, "/")
	if k.params == "" {
		return path
	}
	return path + "?" + k.params
}

func (k Key) Equal(other Key) bool {
	return k.params == other.params && slices.Equal(k.family, other.family)
}

// HasPrefix reports whether prefix addresses k. A prefix without parameters matches
// every key under its family path; a prefix with parameters matches only that exact key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.family) > len(k.family) {
		return false
	}
	if !slices.Equal(k.family[:len(prefix.family)], prefix.family) {
		return false
	}
	return prefix.params == "" || (len(prefix.family) == len(k.family) && prefix.params == k.params)
}
