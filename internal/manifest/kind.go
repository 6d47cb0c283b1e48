package manifest

import (
	"fmt"
	"strings"
)

// Kind is an asset kind.
type Kind string

const (
	Sound Kind = "sound"
	Image Kind = "image"
	Video Kind = "video"
)

// AllKinds lists every kind in iteration order.
var AllKinds = []Kind{Sound, Image, Video}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown asset kind %q (want one of sound, image, video)", s)
}

// ParseKinds parses kind names. The result follows AllKinds order and holds
// no duplicates, whatever order the names were given in.
func ParseKinds(names []string) ([]Kind, error) {
	want := make(map[Kind]bool, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		want[k] = true
	}

	kinds := make([]Kind, 0, len(want))
	for _, k := range AllKinds {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// Asset is a record's reference to one media file.
type Asset struct {
	Record int // index into the manifest
	Kind   Kind
	Path   string // raw, not normalized
}

// Assets returns every asset with a non-empty path, in manifest order and
// kind order, restricted to kinds.
func Assets(records []Record, kinds []Kind) []Asset {
	var assets []Asset
	ks := ordered(kinds)
	for i, rec := range records {
		for _, k := range ks {
			if p := rec.Path(k); p != "" {
				assets = append(assets, Asset{Record: i, Kind: k, Path: p})
			}
		}
	}
	return assets
}

// CountAssets returns len(Assets(records, kinds)) without building the slice.
func CountAssets(records []Record, kinds []Kind) int {
	n := 0
	ks := ordered(kinds)
	for _, rec := range records {
		for _, k := range ks {
			if rec.Path(k) != "" {
				n++
			}
		}
	}
	return n
}

func ordered(kinds []Kind) []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range AllKinds {
		for _, want := range kinds {
			if k == want {
				out = append(out, k)
				break
			}
		}
	}
	return out
}
