package wordpress

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// ResolveAuthorImage returns the largest embedded avatar URL, or a Gravatar
// URL derived from email when WordPress embedded none.
func ResolveAuthorImage(avatarURLs map[string]string, email string) string {
	best, bestSize := "", -1
	for size, u := range avatarURLs {
		n, err := strconv.Atoi(size)
		if err != nil || u == "" {
			continue
		}
		if n > bestSize {
			best, bestSize = u, n
		}
	}
	if best != "" {
		return best
	}
	return GravatarURL(email)
}

// GravatarURL returns the identicon avatar URL for email. The MD5 digest is
// the lookup key Gravatar expects.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBase + hex.EncodeToString(sum[:]) + "?s=96&d=identicon"
}
