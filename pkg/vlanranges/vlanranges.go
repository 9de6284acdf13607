package vlanranges

import (
	"fmt"
	"sync"

	"github.com/henderiw/rangelist/pkg/rangelist"
	"k8s.io/apimachinery/pkg/labels"
)

// VLANRanges tracks reserved VLAN ranges. Coverage lives in a range list, so
// adjacent claims coalesce; each claim additionally carries a label set it can
// be looked up by.
type VLANRanges interface {
	Claim(low, high int64, d labels.Set) error
	Release(low, high int64) error
	Has(id int64) bool
	IsFree(low, high int64) bool

	Count() int
	Covered() []rangelist.Range

	GetAll() map[rangelist.Range]labels.Set
	GetByLabel(selector labels.Selector) map[rangelist.Range]labels.Set
}

type ValidationFn func(low, high int64) error

var initEntries = map[rangelist.Range]labels.Set{
	{Low: 0, High: 2}:       map[string]string{"type": "untagged", "status": "reserved"},
	{Low: 4095, High: 4096}: map[string]string{"type": "untagged", "status": "reserved"},
}

func New() (VLANRanges, error) {
	r := &vlanRanges{
		m:      new(sync.RWMutex),
		list:   rangelist.New(),
		claims: map[rangelist.Range]labels.Set{},
		validateFn: func(low, high int64) error {
			switch {
			case low < 2:
				return fmt.Errorf("VLANs 0 and 1 are reserved, cannot be claimed")
			case high > 4095:
				return fmt.Errorf("VLAN range %d-%d exceeds the last usable VLAN: %d", low, high-1, 4094)
			}
			return nil
		},
	}

	for vr, d := range initEntries {
		if err := r.list.Add(vr.Low, vr.High); err != nil {
			return nil, err
		}
		r.claims[vr] = d
	}
	return r, nil
}

type vlanRanges struct {
	m          *sync.RWMutex
	list       *rangelist.RangeList
	claims     map[rangelist.Range]labels.Set
	validateFn ValidationFn
}

func (r *vlanRanges) Claim(low, high int64, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	vr := rangelist.RangeFrom(low, high)
	if !vr.IsValid() {
		return fmt.Errorf("VLAN range %d-%d is invalid", low, high)
	}
	if err := r.validateFn(low, high); err != nil {
		return err
	}
	if !r.isFree(vr) {
		return fmt.Errorf("VLAN range %d-%d is already claimed", low, high-1)
	}
	if err := r.list.Add(low, high); err != nil {
		return err
	}
	r.claims[vr] = d
	return nil
}

func (r *vlanRanges) Release(low, high int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	vr := rangelist.RangeFrom(low, high)
	if _, ok := r.claims[vr]; !ok {
		return fmt.Errorf("VLAN range %d-%d is not claimed", low, high-1)
	}
	if err := r.list.Remove(low, high); err != nil {
		return err
	}
	delete(r.claims, vr)
	return nil
}

func (r *vlanRanges) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.list.Has(id)
}

func (r *vlanRanges) IsFree(low, high int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.isFree(rangelist.RangeFrom(low, high))
}

func (r *vlanRanges) isFree(vr rangelist.Range) bool {
	for claimed := range r.claims {
		if vr.Overlaps(claimed) {
			return false
		}
	}
	return true
}

func (r *vlanRanges) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.claims)
}

func (r *vlanRanges) Covered() []rangelist.Range {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.list.Ranges()
}

func (r *vlanRanges) GetAll() map[rangelist.Range]labels.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[rangelist.Range]labels.Set, len(r.claims))
	for vr, d := range r.claims {
		entries[vr] = d
	}
	return entries
}

func (r *vlanRanges) GetByLabel(selector labels.Selector) map[rangelist.Range]labels.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := map[rangelist.Range]labels.Set{}
	for vr, d := range r.claims {
		if selector.Matches(d) {
			entries[vr] = d
		}
	}
	return entries
}
