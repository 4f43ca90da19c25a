package state

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"skoview/internal/tpdb"
)

// ErrBookmarkFormat is returned for bookmark strings that cannot be decoded.
var ErrBookmarkFormat = errors.New("malformed bookmark")

// Bookmark is the part of the dashboard state that survives in a shared link.
type Bookmark struct {
	DateEffective      string
	DateEnd            string
	Selected           map[tpdb.ItemType][]int
	StatTpID           int
	ShowTechnicalTerms bool
	PreSelectLabel     string
}

var bookmarkKeys = map[tpdb.ItemType]string{
	tpdb.Consumer:       "c",
	tpdb.Producer:       "p",
	tpdb.LogicalAddress: "l",
	tpdb.Contract:       "k",
	tpdb.Domain:         "o",
	tpdb.PlatformChain:  "x",
}

// BookmarkOf captures the shareable part of s.
func BookmarkOf(s State) Bookmark {
	return Bookmark{
		DateEffective:      s.DateEffective,
		DateEnd:            s.DateEnd,
		Selected:           s.Selected,
		StatTpID:           s.StatTpID,
		ShowTechnicalTerms: s.ShowTechnicalTerms,
		PreSelectLabel:     s.PreSelect.Label,
	}
}

// Encode renders the bookmark as a URL query fragment.
func (b Bookmark) Encode() string {
	v := url.Values{}
	if b.DateEffective != "" {
		v.Set("d", b.DateEffective)
	}
	if b.DateEnd != "" {
		v.Set("e", b.DateEnd)
	}
	for t, key := range bookmarkKeys {
		ids := b.Selected[t]
		if len(ids) == 0 {
			continue
		}
		sorted := slices.Sorted(slices.Values(ids))
		parts := make([]string, len(sorted))
		for i, id := range sorted {
			parts[i] = strconv.Itoa(id)
		}
		v.Set(key, strings.Join(parts, "."))
	}
	if b.StatTpID != 0 {
		v.Set("t", strconv.Itoa(b.StatTpID))
	}
	if b.ShowTechnicalTerms {
		v.Set("tt", "1")
	}
	if b.PreSelectLabel != "" {
		v.Set("s", b.PreSelectLabel)
	}
	return v.Encode()
}

// ParseBookmark decodes a string produced by Bookmark.Encode.
func ParseBookmark(raw string) (Bookmark, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Bookmark{}, fmt.Errorf("%w: %v", ErrBookmarkFormat, err)
	}

	b := Bookmark{
		DateEffective:      v.Get("d"),
		DateEnd:            v.Get("e"),
		Selected:           map[tpdb.ItemType][]int{},
		ShowTechnicalTerms: v.Get("tt") == "1",
		PreSelectLabel:     v.Get("s"),
	}
	if tp := v.Get("t"); tp != "" {
		if b.StatTpID, err = strconv.Atoi(tp); err != nil {
			return Bookmark{}, fmt.Errorf("%w: statistics platform %q", ErrBookmarkFormat, tp)
		}
	}
	for t, key := range bookmarkKeys {
		list := v.Get(key)
		if list == "" {
			continue
		}
		for _, part := range strings.Split(list, ".") {
			id, err := strconv.Atoi(part)
			if err != nil {
				return Bookmark{}, fmt.Errorf("%w: %s id %q", ErrBookmarkFormat, t, part)
			}
			b.Selected[t] = append(b.Selected[t], id)
		}
	}
	return b, nil
}
