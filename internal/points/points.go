// Package points computes Victory Point reputation scores. Everything here is
// pure: no I/O, no clock, identical inputs always produce identical outputs.
package points

// BaselineVPs is the point every account earns at creation. A profile's score
// never drops below it.
const BaselineVPs = 1

// HighRatedThreshold is the star count at which a listing counts as
// high-rated for reputation purposes.
const HighRatedThreshold = 2

// PostVPs returns the tier contribution from the number of listings a user
// has posted.
func PostVPs(postCount int) int {
	switch {
	case postCount >= 10:
		return 5
	case postCount >= 5:
		return 3
	case postCount >= 1:
		return 1
	default:
		return 0
	}
}

// TotalVPs returns a user's total score from scratch: the account-creation
// baseline, the post-count tier, and one point per high-rated listing.
// This is the authoritative formula; incremental awards are defined as
// differences of it so that any sequence of awards telescopes to the same
// total a full recomputation would produce.
func TotalVPs(postCount, highRatedCount int) int {
	if postCount < 0 {
		postCount = 0
	}
	if highRatedCount < 0 {
		highRatedCount = 0
	}
	return BaselineVPs + PostVPs(postCount) + highRatedCount
}

// MilestoneDelta returns the score change for a post-count transition from
// oldCount to newCount. Most transitions inside a tier are zero; crossing a
// tier boundary awards the difference between the tiers.
func MilestoneDelta(oldCount, newCount int) int {
	return PostVPs(newCount) - PostVPs(oldCount)
}
