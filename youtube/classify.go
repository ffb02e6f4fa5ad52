package youtube

import (
	"slices"
	"strings"
)

// Verdict is the outcome of classifying a video.
type Verdict int

const (
	// Included videos are embedded in the day page.
	Included Verdict = iota
	// Excluded videos are only listed by title.
	Excluded
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// vocalKeywords mark a finished broadcast as a vocal performance worth keeping.
// Matching is a substring test on the lower-cased description.
var vocalKeywords = []string{"vocal", "ボーカル"}

// Classify decides whether a video is included in the digest.
//
// Ordinary uploads are always included. Broadcasts that are upcoming or still
// live are excluded. Finished broadcasts and premieres are included only when
// their description mentions a vocal keyword.
func Classify(v Video) Verdict {
	if v.Live == nil {
		return Included
	}
	if !v.Live.Ended() {
		return Excluded
	}

	desc := strings.ToLower(v.Description)
	for _, kw := range vocalKeywords {
		if strings.Contains(desc, kw) {
			return Included
		}
	}
	return Excluded
}

// ClassifiedVideo is a video tagged with its verdict.
type ClassifiedVideo struct {
	ID      string
	Title   string
	Verdict Verdict
}

// Partition is an immutable split of classified videos. The zero value is empty.
// Order follows the order videos were added.
type Partition struct {
	included []ClassifiedVideo
	excluded []ClassifiedVideo
}

// Add classifies videos and returns a new Partition containing p's entries
// followed by the new ones. p itself is unchanged.
func (p Partition) Add(videos ...Video) Partition {
	next := Partition{
		included: slices.Clip(p.included),
		excluded: slices.Clip(p.excluded),
	}
	for _, v := range videos {
		cv := ClassifiedVideo{ID: v.ID, Title: v.Title, Verdict: Classify(v)}
		if cv.Verdict == Included {
			next.included = append(next.included, cv)
		} else {
			next.excluded = append(next.excluded, cv)
		}
	}
	return next
}

// Included returns a copy of the included videos.
func (p Partition) Included() []ClassifiedVideo {
	return slices.Clone(p.included)
}

// Excluded returns a copy of the excluded videos.
func (p Partition) Excluded() []ClassifiedVideo {
	return slices.Clone(p.excluded)
}

// Empty reports whether no videos were added.
func (p Partition) Empty() bool {
	return len(p.included) == 0 && len(p.excluded) == 0
}
