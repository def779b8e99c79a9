package services

import "net/url"

// DefaultAvatarURL derives a deterministic avatar for a username using the
// DiceBear API. The same username always produces the same URL.
func DefaultAvatarURL(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(username)
}
