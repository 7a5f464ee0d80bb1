package syncengine

import (
	"strconv"
	"strings"
)

// Marker identifies one fetched page in either pagination mode: a 1-based
// page number ("page:1") or a cursor, the ID of the oldest record already
// loaded ("cursor:547"). CursorMarker(0) means "no cursor", i.e. the top of
// the list. Loaded markers are tracked to keep a page from being merged
// twice and to detect a consumer restarting pagination from the beginning.
type Marker string

// PageMarker returns the marker for a 1-based page number.
func PageMarker(page int) Marker {
	return Marker("page:" + strconv.Itoa(page))
}

// CursorMarker returns the marker for a cursor fetch. Zero means the
// beginning of the list.
func CursorMarker(cursor int64) Marker {
	return Marker("cursor:" + strconv.FormatInt(cursor, 10))
}

// IsStart reports whether the marker denotes a first-page fetch in either
// pagination mode.
func (m Marker) IsStart() bool {
	return m == PageMarker(1) || m == CursorMarker(0)
}

// Page returns the page number for a page-mode marker.
func (m Marker) Page() (int, bool) {
	raw, ok := strings.CutPrefix(string(m), "page:")
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return page, true
}

// Cursor returns the cursor for a cursor-mode marker.
func (m Marker) Cursor() (int64, bool) {
	raw, ok := strings.CutPrefix(string(m), "cursor:")
	if !ok {
		return 0, false
	}
	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return cursor, true
}
