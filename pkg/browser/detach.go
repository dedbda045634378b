//go:build !windows

package browser

import "syscall"

// detachedProcAttr puts the child in its own session so it does not receive
// our terminal's signals and keeps running after we exit.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
