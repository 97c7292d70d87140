// Package zone models time-zone offsets and the rules that say which
// offset applies when.
//
// A ZoneRules value answers two kinds of question. Given an instant there
// is exactly one offset. Given a local date-time there may be one offset,
// none (the clocks jumped forward over it, a gap) or two (the clocks fell
// back and it happened twice, an overlap). OffsetInfo reports which case
// applies; Resolve turns it into a single offset under an explicit Policy.
//
// Rules come from providers registered in a Registry. A provider owns a set
// of zone ids, and no two providers may own the same id.
package zone
