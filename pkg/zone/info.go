package zone

// OffsetInfo is the answer to "which offset applies at this local
// date-time": either a single valid offset, or the transition whose gap or
// overlap the date-time falls in. No offset is chosen on the caller's
// behalf; see Resolve.
type OffsetInfo struct {
	offset        ZoneOffset
	transition    ZoneOffsetTransition
	hasTransition bool
}

func offsetInfoOf(offset ZoneOffset) OffsetInfo {
	return OffsetInfo{offset: offset}
}

func offsetInfoInTransition(t ZoneOffsetTransition) OffsetInfo {
	return OffsetInfo{transition: t, hasTransition: true}
}

// Offset returns the single valid offset. ok is false inside a gap or
// overlap.
func (i OffsetInfo) Offset() (offset ZoneOffset, ok bool) {
	return i.offset, !i.hasTransition
}

// Transition returns the transition the date-time falls in.
func (i OffsetInfo) Transition() (ZoneOffsetTransition, bool) {
	return i.transition, i.hasTransition
}

// IsTransition reports whether the date-time is in a gap or overlap.
func (i OffsetInfo) IsTransition() bool {
	return i.hasTransition
}

// IsGap reports whether the date-time was skipped.
func (i OffsetInfo) IsGap() bool {
	return i.hasTransition && i.transition.IsGap()
}

// IsOverlap reports whether the date-time occurred twice.
func (i OffsetInfo) IsOverlap() bool {
	return i.hasTransition && i.transition.IsOverlap()
}

// ValidOffsets lists the legal offsets: one normally, none in a gap, two
// in an overlap.
func (i OffsetInfo) ValidOffsets() []ZoneOffset {
	if i.hasTransition {
		return i.transition.ValidOffsets()
	}
	return []ZoneOffset{i.offset}
}

func (i OffsetInfo) String() string {
	if i.hasTransition {
		return i.transition.String()
	}
	return i.offset.String()
}
