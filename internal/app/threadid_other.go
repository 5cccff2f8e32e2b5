//go:build !linux

package app

// currentThreadID is unknown off Linux; loop-thread checks then always
// pass.
func currentThreadID() int {
	return 0
}
