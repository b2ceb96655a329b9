//go:build unix

// Package mmap maps script files into memory so a Scanner can walk them
// without copying.
package mmap

import (
	"fmt"
	"os"
	"syscall"
)

// MapFile memory-maps a file for reading.
// Returns the mapped bytes and a release function that unmaps the file.
//
//	data, release, err := mmap.MapFile("setup.cfg")
//	if err != nil {
//	    return err
//	}
//	defer release()
//	s := linescan.NewScanner(data)
//
// Do not use the data slice, or tokens taken from it, after calling release.
func MapFile(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	if size == 0 {
		// Mmap rejects zero lengths
		return []byte{}, func() { f.Close() }, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	var released bool
	release := func() {
		if released {
			return
		}
		released = true
		_ = syscall.Munmap(data)
		f.Close()
	}
	return data, release, nil
}
