package catalog

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

// sizeTolerance is the proximity window for size matching: a candidate
// matches when both dimensions are within this many units of the query.
const sizeTolerance = 2

var sizePattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

// Filter narrows a catalog query. Zero values mean "no filter".
type Filter struct {
	Type         string // exact variant match
	SizeQuery    string // proximity match, ignored when unparseable
	DensityQuery string // case-insensitive substring match
}

// Query scans the catalog, applies the filter and returns products in
// ascending density order (by leading numeric value; entries without
// one sort last, stably).
func (l *Ledger) Query(f Filter) ([]*domain.Product, error) {
	qw, qh, sizeOK := parseSize(f.SizeQuery)
	density := strings.ToLower(f.DensityQuery)

	var out []*domain.Product
	err := l.store.ForEach(domain.BucketProducts, func(data []byte) error {
		var p domain.Product
		if err := store.Decode(data, &p); err != nil {
			return err
		}
		if f.Type != "" && p.Type != f.Type {
			return nil
		}
		if sizeOK && !matchSize(p.Size, qw, qh) {
			return nil
		}
		if density != "" && !strings.Contains(strings.ToLower(p.Density), density) {
			return nil
		}
		out = append(out, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return densityLess(out[i].Density, out[j].Density)
	})
	return out, nil
}

// parseSize splits "WxH" into its dimensions. ok is false when s does
// not follow the pattern, which disables the size filter entirely.
func parseSize(s string) (w, h int, ok bool) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	w, _ = strconv.Atoi(m[1])
	h, _ = strconv.Atoi(m[2])
	return w, h, true
}

// matchSize reports whether the candidate size lies within the
// tolerance window on both axes. Candidates that do not parse never
// match an active size filter.
func matchSize(candidate string, qw, qh int) bool {
	w, h, ok := parseSize(candidate)
	if !ok {
		return false
	}
	return abs(w-qw) <= sizeTolerance && abs(h-qh) <= sizeTolerance
}

// densityLess orders by leading numeric density; rows without one go
// last regardless of direction so sorting stays consistent.
func densityLess(a, b string) bool {
	da, db := leadingFloat(a), leadingFloat(b)
	switch {
	case math.IsNaN(da):
		return false
	case math.IsNaN(db):
		return true
	default:
		return da < db
	}
}

// leadingFloat parses the numeric prefix of s ("450-510" -> 450) and
// returns NaN when there is none.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	dot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !dot {
			dot = true
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
