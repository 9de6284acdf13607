package ipranges

import (
	"fmt"
	"math/big"
	"net/netip"
	"sync"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/rangelist/pkg/rangelist"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

// IPRanges tracks claimed addresses within an inclusive address range.
// Addresses map to offsets from the start of the range; coverage lives in a
// range list so contiguous claims coalesce. Each claim carries a route it can
// be looked up by.
type IPRanges interface {
	Claim(addr string, d table.Route) error
	ClaimRange(from, to string, d table.Route) error
	Release(addr string) error
	ReleaseRange(from, to string) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

func New(from, to netip.Addr) (IPRanges, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from.String(), to.String())
	}
	return &ipRanges{
		m:       new(sync.RWMutex),
		list:    rangelist.New(),
		claims:  map[rangelist.Range]table.Route{},
		ipRange: ipRange,
	}, nil
}

type ipRanges struct {
	m       *sync.RWMutex
	list    *rangelist.RangeList
	claims  map[rangelist.Range]table.Route
	ipRange netipx.IPRange
}

func (r *ipRanges) Claim(addr string, d table.Route) error {
	return r.ClaimRange(addr, addr, d)
}

func (r *ipRanges) ClaimRange(from, to string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	offsets, err := r.validateRange(from, to)
	if err != nil {
		return err
	}
	for claimed := range r.claims {
		if offsets.Overlaps(claimed) {
			return fmt.Errorf("claim failed, range %s-%s overlaps an existing claim", from, to)
		}
	}
	if err := r.list.Add(offsets.Low, offsets.High); err != nil {
		return err
	}
	r.claims[offsets] = d
	return nil
}

func (r *ipRanges) Release(addr string) error {
	return r.ReleaseRange(addr, addr)
}

func (r *ipRanges) ReleaseRange(from, to string) error {
	r.m.Lock()
	defer r.m.Unlock()

	offsets, err := r.validateRange(from, to)
	if err != nil {
		return err
	}
	if _, ok := r.claims[offsets]; !ok {
		return fmt.Errorf("release failed, range %s-%s is not claimed", from, to)
	}
	if err := r.list.Remove(offsets.Low, offsets.High); err != nil {
		return err
	}
	delete(r.claims, offsets)
	return nil
}

func (r *ipRanges) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.claims)
}

func (r *ipRanges) Has(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.list.Has(calculateOffset(claimIP, r.ipRange.From()))
}

func (r *ipRanges) IsFree(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return !r.list.Has(calculateOffset(claimIP, r.ipRange.From()))
}

// FindFree returns the lowest unclaimed address in the range.
func (r *ipRanges) FindFree() (netip.Addr, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	size := calculateOffset(r.ipRange.To(), r.ipRange.From()) + 1
	free := int64(0)
	for _, covered := range r.list.Ranges() {
		if free < covered.Low {
			break
		}
		free = covered.High
	}
	if free >= size {
		return netip.Addr{}, fmt.Errorf("no free address available")
	}
	return calculateIPFromOffset(r.ipRange.From(), free), nil
}

func (r *ipRanges) GetAll() table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for _, d := range r.claims {
		routes = append(routes, d)
	}
	return routes
}

func (r *ipRanges) GetByLabel(selector labels.Selector) table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for _, d := range r.claims {
		if selector.Matches(d.Labels()) {
			routes = append(routes, d)
		}
	}
	return routes
}

// validateRange maps an inclusive from-to address pair onto the half-open
// offset range the claimed integers occupy.
func (r *ipRanges) validateRange(from, to string) (rangelist.Range, error) {
	fromIP, err := r.validateIP(from)
	if err != nil {
		return rangelist.Range{}, err
	}
	toIP, err := r.validateIP(to)
	if err != nil {
		return rangelist.Range{}, err
	}
	if toIP.Less(fromIP) {
		return rangelist.Range{}, fmt.Errorf("range %s-%s is inverted", from, to)
	}
	low := calculateOffset(fromIP, r.ipRange.From())
	high := calculateOffset(toIP, r.ipRange.From()) + 1
	return rangelist.RangeFrom(low, high), nil
}

func (r *ipRanges) validateIP(addr string) (netip.Addr, error) {
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

func calculateOffset(ip, start netip.Addr) int64 {
	return new(big.Int).Sub(ipToInt(ip), ipToInt(start)).Int64()
}

func ipToInt(ip netip.Addr) *big.Int {
	bytes := ip.As16()
	ipInt := new(big.Int)
	ipInt.SetBytes(bytes[:])
	return ipInt
}

func calculateIPFromOffset(startIP netip.Addr, offset int64) netip.Addr {
	ipInt := new(big.Int).Add(ipToInt(startIP), big.NewInt(offset))
	ipBytes := ipInt.Bytes()

	if len(ipBytes) < 16 {
		paddedBytes := make([]byte, 16-len(ipBytes))
		ipBytes = append(paddedBytes, ipBytes...)
	}

	var ip16 [16]byte
	copy(ip16[:], ipBytes)

	if startIP.Is4() {
		return netip.AddrFrom4(netip.AddrFrom16(ip16).As4())
	}
	return netip.AddrFrom16(ip16)
}
