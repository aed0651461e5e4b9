package cache

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ListPrefix is the common prefix of every list key of kind.
func ListPrefix(kind string) string {
	return kind + ":list:"
}

// ListKey encodes a list query as
//
//	<kind>:list:page=<p>:limit=<l>[:<field>=<value>...]
//
// Filter fields are sorted by name and empty values are dropped, so equal
// queries always produce equal keys. Values are query-escaped to keep ':'
// unambiguous.
func ListKey(kind string, page, limit int, filters map[string]string) string {
	var b strings.Builder
	b.WriteString(ListPrefix(kind))
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString(":limit=")
	b.WriteString(strconv.Itoa(limit))

	names := make([]string, 0, len(filters))
	for name, v := range filters {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(filters[name]))
	}
	return b.String()
}

// ItemKey is the key of a single record of kind.
func ItemKey(kind string, id int64) string {
	return kind + ":item:" + strconv.FormatInt(id, 10)
}

// kindOf returns the leading segment of a key.
func kindOf(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}
