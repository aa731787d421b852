// SPDX-License-Identifier: EPL-2.0

// Package profile aggregates descriptor vectors into per-label reference
// profiles and keeps them in a label-ordered set.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/ik5/audclass/descriptor"
)

// Profile is the reference summary of one label. Autocorrelation,
// Autocovariance and Spectral are means of min-max normalized values; the
// rest are raw means.
type Profile struct {
	Autocorrelation float64 `json:"autocorrelation_mean"`
	Autocovariance  float64 `json:"autocovariance_mean"`
	Spectral        float64 `json:"spectrum_mean"`
	Kurtosis        float64 `json:"kurtosis_mean"`
	Skewness        float64 `json:"skewness_mean"`
	SNR             float64 `json:"snr_mean"`
	DynamicRange    float64 `json:"dynamic_range_mean"`
}

// Values returns the fields in descriptor.Fields order.
func (p Profile) Values() [descriptor.NumFields]float64 {
	return [descriptor.NumFields]float64{
		p.Autocorrelation,
		p.Autocovariance,
		p.Spectral,
		p.Kurtosis,
		p.Skewness,
		p.SNR,
		p.DynamicRange,
	}
}

// Set maps labels to profiles and remembers the order in which labels were
// first added. The zero value is not usable; call NewSet.
type Set struct {
	labels   []string
	profiles map[string]Profile
}

func NewSet() *Set {
	return &Set{profiles: make(map[string]Profile)}
}

// Put stores p under label. Replacing an existing label keeps its position.
func (s *Set) Put(label string, p Profile) {
	if _, ok := s.profiles[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.profiles[label] = p
}

func (s *Set) Get(label string) (Profile, bool) {
	if s == nil {
		return Profile{}, false
	}
	p, ok := s.profiles[label]
	return p, ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Labels returns a copy of the labels in set order.
func (s *Set) Labels() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.labels)
}

// All iterates the set in order.
func (s *Set) All() iter.Seq2[string, Profile] {
	return func(yield func(string, Profile) bool) {
		if s == nil {
			return
		}
		for _, label := range s.labels {
			if !yield(label, s.profiles[label]) {
				return
			}
		}
	}
}

// MarshalJSON writes the set as a JSON object whose keys follow set order.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range s.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.profiles[label])
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of profiles, keeping key order.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("profile set: expected JSON object")
	}

	out := NewSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("profile set: unexpected token %v", tok)
		}

		var p Profile
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("profile %q: %w", label, err)
		}
		out.Put(label, p)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = *out
	return nil
}
