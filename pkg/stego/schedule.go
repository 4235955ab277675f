package stego

// Schedule yields the linear pixel indices that carry payload. Each gap in
// the pattern is the number of pixels passed over before the next target;
// skip is passed over once before the first gap. The pattern repeats forever.
//
// The sequence knows nothing about the grid it is used on, so the caller
// decides when to stop pulling.
type Schedule struct {
	offsets []uint32
	base    uint64
	index   int
}

func NewSchedule(offsets []uint32, skip uint32) (*Schedule, error) {
	if len(offsets) == 0 {
		return nil, ErrNoOffsets
	}
	owned := make([]uint32, len(offsets))
	copy(owned, offsets)
	return &Schedule{offsets: owned, base: uint64(skip)}, nil
}

// Next returns the next target index. Every result is strictly greater
// than the one before it.
func (s *Schedule) Next() uint64 {
	target := s.base + uint64(s.offsets[s.index])
	s.base = target + 1
	s.index = (s.index + 1) % len(s.offsets)
	return target
}
