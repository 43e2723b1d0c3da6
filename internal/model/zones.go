package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyZoneName = errors.New("zone name is empty")
	ErrDuplicateZone = errors.New("zone already mapped")
)

// ZoneIndex maps zone names to the 1-based indices used everywhere else in the
// model. Indices are assigned in declaration order and never renumbered.
type ZoneIndex struct {
	byName map[string]int
	byIdx  map[int]string
	order  []string
}

func NewZoneIndex() *ZoneIndex {
	return &ZoneIndex{
		byName: map[string]int{},
		byIdx:  map[int]string{},
	}
}

// Put maps name to idx. Neither the name nor the index may already be in use.
func (z *ZoneIndex) Put(name string, idx int) error {
	if name == "" {
		return ErrEmptyZoneName
	}
	if idx < 1 {
		return fmt.Errorf("zone %s: index %d must be >= 1", name, idx)
	}
	if prev, ok := z.byName[name]; ok {
		return fmt.Errorf("%w: %s has index %d", ErrDuplicateZone, name, prev)
	}
	if prev, ok := z.byIdx[idx]; ok {
		return fmt.Errorf("%w: index %d belongs to %s", ErrDuplicateZone, idx, prev)
	}
	z.byName[name] = idx
	z.byIdx[idx] = name
	z.order = append(z.order, name)
	return nil
}

// Get returns the index for name, and false if the name is unknown.
func (z *ZoneIndex) Get(name string) (int, bool) {
	idx, ok := z.byName[name]
	return idx, ok
}

func (z *ZoneIndex) HasIndexForName(name string) bool {
	_, ok := z.byName[name]
	return ok
}

// Name is the reverse lookup of Get.
func (z *ZoneIndex) Name(idx int) (string, bool) {
	name, ok := z.byIdx[idx]
	return name, ok
}

func (z *ZoneIndex) NumZones() int { return len(z.order) }

// Names returns the zone names in declaration order.
func (z *ZoneIndex) Names() []string {
	out := make([]string, len(z.order))
	copy(out, z.order)
	return out
}
