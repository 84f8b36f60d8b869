package models

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// ThresholdSet records which alert thresholds already fired for one timer.
// A fired threshold never re-fires unless an extension raises remaining
// time back past it, which clears the bit. Not safe for concurrent use;
// the alert manager serializes access.
type ThresholdSet struct {
	bits *roaring.Bitmap
}

func NewThresholdSet() *ThresholdSet {
	return &ThresholdSet{bits: roaring.New()}
}

func (s *ThresholdSet) Mark(thresholdMinutes int) {
	if thresholdMinutes < 0 {
		return
	}
	s.bits.Add(uint32(thresholdMinutes))
}

func (s *ThresholdSet) Fired(thresholdMinutes int) bool {
	if thresholdMinutes < 0 {
		return false
	}
	return s.bits.Contains(uint32(thresholdMinutes))
}

// ClearBelow forgets every threshold strictly below the limit so those
// alerts can trigger again when the countdown next crosses them.
func (s *ThresholdSet) ClearBelow(limitMinutes int) {
	if limitMinutes <= 0 {
		return
	}
	s.bits.RemoveRange(0, uint64(limitMinutes))
}

func (s *ThresholdSet) Empty() bool {
	return s.bits.IsEmpty()
}
