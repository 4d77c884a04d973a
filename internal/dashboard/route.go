package dashboard

import "strings"

// Route returns the detail view path of a file: /{folder}/{file}.
func Route(folder, file string) string {
	return "/" + folder + "/" + file
}

// ParseRoute splits a detail view path. It reports false for anything that
// is not exactly two non-empty segments.
func ParseRoute(path string) (folder, file string, ok bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
