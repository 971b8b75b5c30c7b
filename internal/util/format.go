package util

import "strings"

// JoinURL joins a base URL with path segments without doubling slashes.
func JoinURL(base string, segments ...string) string {
	url := strings.TrimRight(base, "/")
	for _, segment := range segments {
		url += "/" + strings.Trim(segment, "/")
	}

	return url
}
