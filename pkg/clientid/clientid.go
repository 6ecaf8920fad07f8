// Package clientid generates MQTT client identifiers of the form
// <prefix>_<host-slug>_<random hex>.
package clientid

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"

	"github.com/gosimple/slug"
)

const maxHostLen = 16

var hostname = os.Hostname

func New(prefix string) (string, error) {
	suffix, err := GenerateToken(4)
	if err != nil {
		return "", err
	}
	parts := []string{prefix}
	if host, err := hostname(); err == nil {
		if h := slug.Make(host); h != "" {
			if len(h) > maxHostLen {
				h = strings.TrimRight(h[:maxHostLen], "-")
			}
			parts = append(parts, h)
		}
	}
	return strings.Join(append(parts, suffix), "_"), nil
}

// GenerateToken returns length random bytes, hex encoded.
func GenerateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
