package vlanranges

import (
	"testing"

	"github.com/henderiw/rangelist/pkg/rangelist"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		newSuccessEntries map[rangelist.Range]labels.Set
		newFailedEntries  map[rangelist.Range]labels.Set
		expectedEntries   int
	}{

		"Normal": {
			newSuccessEntries: map[rangelist.Range]labels.Set{
				{Low: 10, High: 20}:   map[string]string{"purpose": "server"},
				{Low: 100, High: 200}: map[string]string{"purpose": "storage"},
			},
			newFailedEntries: map[rangelist.Range]labels.Set{
				{Low: 0, High: 10}:      map[string]string{},
				{Low: 15, High: 30}:     map[string]string{},
				{Low: 4000, High: 5000}: map[string]string{},
				{Low: 20, High: 20}:     map[string]string{},
			},
			expectedEntries: 4,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := New()
			assert.NoError(t, err)

			for vr, d := range tc.newSuccessEntries {
				err := r.Claim(vr.Low, vr.High, d)
				assert.NoError(t, err)
			}
			for vr, d := range tc.newFailedEntries {
				err := r.Claim(vr.Low, vr.High, d)
				assert.Error(t, err)
			}
			// check claims
			for vr := range tc.newSuccessEntries {
				if !r.Has(vr.Low) {
					t.Errorf("%s expecting success claim entry: %s\n", name, vr)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, r.Count())
			}
		})
	}
}

func TestRelease(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	err = r.Claim(10, 20, map[string]string{})
	assert.NoError(t, err)
	assert.True(t, r.Has(10))

	// only the claimed range can be released, not a part of it
	err = r.Release(10, 15)
	assert.Error(t, err)

	err = r.Release(10, 20)
	assert.NoError(t, err)
	assert.False(t, r.Has(10))
	assert.True(t, r.IsFree(10, 20))
}

func TestCovered(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	// adjacent claims coalesce in the coverage view
	err = r.Claim(10, 20, map[string]string{})
	assert.NoError(t, err)
	err = r.Claim(20, 30, map[string]string{})
	assert.NoError(t, err)

	covered := r.Covered()
	// reserved VLANs [0,2) and [4095,4096) plus the coalesced claim
	assert.Equal(t, 3, len(covered))
	assert.Equal(t, rangelist.RangeFrom(10, 30), covered[1])
}

func TestGetByLabel(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	err = r.Claim(10, 20, map[string]string{"purpose": "server"})
	assert.NoError(t, err)
	err = r.Claim(30, 40, map[string]string{"purpose": "storage"})
	assert.NoError(t, err)

	selector, err := labels.Parse("purpose=server")
	assert.NoError(t, err)

	entries := r.GetByLabel(selector)
	assert.Equal(t, 1, len(entries))
	for vr := range entries {
		assert.Equal(t, rangelist.RangeFrom(10, 20), vr)
	}
}
