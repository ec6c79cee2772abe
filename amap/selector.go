package amap

import "strconv"

// nonNumericID sorts candidates with non-numeric ids after every real id.
const nonNumericID int64 = 1e18

func idNum(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nonNumericID
	}
	return v
}

// PickBusline selects the candidate with the smallest numeric id. Candidates
// whose id does not parse as an integer are never picked over numeric ones.
// Returns nil for an empty list; ties keep the earlier candidate.
func PickBusline(cands []Busline) *Busline {
	if len(cands) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(cands); i++ {
		if idNum(cands[i].ID) < idNum(cands[best].ID) {
			best = i
		}
	}
	return &cands[best]
}
