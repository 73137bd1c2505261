//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenFlashCreatesErasedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.flash")
	f, err := OpenFlash(path, 5000)
	if err != nil {
		t.Fatalf("OpenFlash: %v", err)
	}
	defer f.Close()

	if got, want := f.SizeBytes(), uint32(2*hostFlashEraseBlockBytes); got != want {
		t.Fatalf("size=%d want %d", got, want)
	}

	buf := make([]byte, 32)
	if _, err := f.ReadAt(buf, 100); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{0xFF}, len(buf))) {
		t.Fatalf("new image not erased: % x", buf)
	}
}

func TestFileFlashWriteRequiresErase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.flash")
	f, err := OpenFlash(path, hostFlashEraseBlockBytes)
	if err != nil {
		t.Fatalf("OpenFlash: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// Clearing more bits is allowed.
	if _, err := f.WriteAt([]byte{0x05}, 10); err != nil {
		t.Fatalf("clearing write: %v", err)
	}
	// Setting a bit back is not.
	if _, err := f.WriteAt([]byte{0x0F}, 10); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("err=%v want ErrFlashWriteRequiresErase", err)
	}

	if err := f.Erase(0, hostFlashEraseBlockBytes); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("write after erase: %v", err)
	}
}

func TestFileFlashEraseAlignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.flash")
	f, err := OpenFlash(path, hostFlashEraseBlockBytes)
	if err != nil {
		t.Fatalf("OpenFlash: %v", err)
	}
	defer f.Close()

	if err := f.Erase(1, hostFlashEraseBlockBytes); err == nil {
		t.Fatalf("unaligned erase succeeded")
	}
	if err := f.Erase(0, 2*hostFlashEraseBlockBytes); err == nil {
		t.Fatalf("out of range erase succeeded")
	}
}

func TestOpenFlashKeepsExistingContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.flash")
	f, err := OpenFlash(path, hostFlashEraseBlockBytes)
	if err != nil {
		t.Fatalf("OpenFlash: %v", err)
	}
	if _, err := f.WriteAt([]byte("abc"), 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err = OpenFlash(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	if got, want := f.SizeBytes(), uint32(hostFlashEraseBlockBytes); got != want {
		t.Fatalf("size=%d want %d", got, want)
	}
	buf := make([]byte, 3)
	if _, err := f.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "abc" {
		t.Fatalf("contents=%q want %q", buf, "abc")
	}
}
