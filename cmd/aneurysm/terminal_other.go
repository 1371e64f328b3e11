//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

import (
	"errors"
	"os"
)

func enterCBreakMode(*os.File) (func(), error) {
	return nil, errors.New("raw input is not supported on this platform")
}
