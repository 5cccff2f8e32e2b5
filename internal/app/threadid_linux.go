//go:build linux

package app

import "golang.org/x/sys/unix"

func currentThreadID() int {
	return unix.Gettid()
}
