//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// enterCBreakMode switches f to character-at-a-time input with echo off so
// that ',' sees each keystroke as it is typed. The returned function restores
// the previous settings and is safe to call more than once.
func enterCBreakMode(f *os.File) (func(), error) {
	var saved unix.Termios
	if err := termios.Tcgetattr(f.Fd(), &saved); err != nil {
		return nil, fmt.Errorf("read terminal attributes: %w", err)
	}

	cbreak := saved
	termios.Cfmakecbreak(&cbreak)
	if err := termios.Tcsetattr(f.Fd(), termios.TCSANOW, &cbreak); err != nil {
		return nil, fmt.Errorf("set cbreak mode: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = termios.Tcsetattr(f.Fd(), termios.TCSANOW, &saved)
		})
	}, nil
}
