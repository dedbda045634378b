//go:build windows

package browser

import "syscall"

const createNewProcessGroup = 0x00000200

// detachedProcAttr detaches the child from our console so it keeps running
// after we exit.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
