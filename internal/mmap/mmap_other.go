//go:build !unix

// Package mmap maps script files into memory so a Scanner can walk them
// without copying.
package mmap

import (
	"fmt"
	"os"
)

// MapFile reads a file into memory on platforms without mmap.
// The release function is a no-op kept for parity with the unix version.
func MapFile(path string) ([]byte, func(), error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, func() {}, nil
}
