package proc

import "math"

// MemSample is an aggregate memory reading in bytes.
type MemSample struct {
	RSS uint64 `json:"rssBytes"`
	VSZ uint64 `json:"vszBytes"`
}

// Add returns the element-wise saturating sum of two samples.
func (m MemSample) Add(o MemSample) MemSample {
	return MemSample{
		RSS: satAdd(m.RSS, o.RSS),
		VSZ: satAdd(m.VSZ, o.VSZ),
	}
}

// Max returns the element-wise maximum of two samples.
func (m MemSample) Max(o MemSample) MemSample {
	out := m
	if o.RSS > out.RSS {
		out.RSS = o.RSS
	}
	if o.VSZ > out.VSZ {
		out.VSZ = o.VSZ
	}
	return out
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
