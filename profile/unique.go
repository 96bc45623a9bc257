package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

type seenSet struct {
	mu     sync.Mutex
	values map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{
		values: make(map[string]struct{}),
	}
}

// insert adds v and reports whether it was absent.
func (s *seenSet) insert(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[v]; ok {
		return false
	}

	s.values[v] = struct{}{}
	return true
}

func (s *seenSet) contains(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[v]
	return ok
}

func (s *seenSet) list() []string {
	s.mu.Lock()
	l := make([]string, 0, len(s.values))
	for v := range s.values {
		l = append(l, v)
	}
	s.mu.Unlock()

	sort.Strings(l)
	return l
}

// Unique accepts each value at most once. Clones of a Unique share one set
// of seen values, so a value accepted through any clone is rejected by all
// of them. Use NewUnique when the validator is shared between goroutines.
type Unique struct {
	set *seenSet
}

func NewUnique() *Unique {
	return &Unique{
		set: newSeenSet(),
	}
}

func (v *Unique) seen() *seenSet {
	if v.set == nil {
		v.set = newSeenSet()
	}
	return v.set
}

func (v *Unique) Validate(value string) error {
	if v.seen().contains(value) {
		return fmt.Errorf("%w: %q", ErrDuplicate, value)
	}
	return nil
}

func (v *Unique) Consider(value string) error {
	if !v.seen().insert(value) {
		return fmt.Errorf("%w: %q", ErrDuplicate, value)
	}
	return nil
}

// Values returns the seen values in sorted order.
func (v *Unique) Values() []string {
	return v.seen().list()
}

// clone returns a Unique sharing the seen values of v.
func (v *Unique) clone() *Unique {
	return &Unique{set: v.seen()}
}

type uniqueJSON struct {
	Values []string `json:"values"`
}

func (v *Unique) MarshalJSON() ([]byte, error) {
	return json.Marshal(uniqueJSON{Values: v.Values()})
}

func (v *Unique) UnmarshalJSON(b []byte) error {
	var u uniqueJSON
	if err := json.Unmarshal(b, &u); err != nil {
		return err
	}

	set := newSeenSet()
	for _, s := range u.Values {
		set.values[s] = struct{}{}
	}
	v.set = set

	return nil
}
