//go:build windows

package restore

import "golang.org/x/sys/windows"

func defaultIsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
