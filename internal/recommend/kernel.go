// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math"
	"sort"
)

// Kernel constants. These are fitted values; output compatibility depends on
// them being exact.
const (
	kernelAmplitude = 0.1
	kernelScale     = 2.5281
	kernelExponent  = 2.3691
)

// Kernel maps an attribute distance to a proximity boost in (0, 0.1].
// Kernel(0) is 0.1 and the value decays monotonically toward 0.
func Kernel(delta float64) float64 {
	delta = math.Abs(delta)
	return kernelAmplitude * 1 / (1 + math.Pow(delta/kernelScale, kernelExponent))
}

// FingerprintDelta returns |candidate[key] - source[key]|. A missing key on
// either side reads as 0. An empty key yields 0 for every pair.
func FingerprintDelta(source, candidate Fingerprint, key string) float64 {
	if key == "" {
		return 0
	}
	return math.Abs(candidate[key] - source[key])
}

// Blend scores a hit against a source fingerprint.
func Blend(hit Hit, source Fingerprint, key string) Candidate {
	delta := FingerprintDelta(source, hit.Fingerprint, key)
	boost := Kernel(delta)
	return Candidate{
		TitleID:          hit.TitleID,
		MediaType:        hit.MediaType,
		ANNScore:         hit.Relevance,
		FingerprintDelta: delta,
		FingerprintScore: boost,
		BlendedScore:     hit.Relevance + boost,
	}
}

// candidateLess orders candidates by blended score descending, then title id
// ascending, then media type.
func candidateLess(a, b *Candidate) bool {
	if a.BlendedScore != b.BlendedScore {
		return a.BlendedScore > b.BlendedScore
	}
	if a.TitleID != b.TitleID {
		return a.TitleID < b.TitleID
	}
	return a.MediaType < b.MediaType
}

// SortCandidates ranks candidates in place.
func SortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		return candidateLess(&c[i], &c[j])
	})
}
