// Package user resolves who is running the CLI so tasks assigned to them
// can be picked out of the board.
package user

import (
	"os"
	"os/user"
	"strings"
)

// EnvName overrides the detected account name
const EnvName = "TABLO_USER"

// CurrentName returns the name matched against task assignees. It is taken
// from $TABLO_USER, then the OS account, then $USER. Empty when none is known.
func CurrentName() string {
	if name := strings.TrimSpace(os.Getenv(EnvName)); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(os.Getenv("USER"))
}
