//go:build !windows

package restore

import "os"

func defaultIsElevated() bool {
	return os.Geteuid() == 0
}
