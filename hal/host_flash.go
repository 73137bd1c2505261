//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// DefaultFlashPath is the flash image used when no path is configured.
	DefaultFlashPath = "sparkcalc.flash"
	// DefaultFlashSizeBytes is the size of a freshly created flash image.
	DefaultFlashSizeBytes = 64 * 1024

	hostFlashEraseBlockBytes = 4096
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// FileFlash emulates NOR flash on top of a host file.
//
// New images are created erased (all 0xFF). Writes may only clear bits; setting a bit back
// requires erasing the containing block.
type FileFlash struct {
	mu      sync.Mutex
	f       *os.File
	size    uint32
	scratch [hostFlashEraseBlockBytes]byte
}

// OpenFlash opens (or creates) a flash image at path.
//
// An existing image keeps its size; a new one is sized to size bytes, rounded up to the
// erase block.
func OpenFlash(path string, size uint32) (*FileFlash, error) {
	if path == "" {
		path = DefaultFlashPath
	}
	if size == 0 {
		size = DefaultFlashSizeBytes
	}
	if rem := size % hostFlashEraseBlockBytes; rem != 0 {
		size += hostFlashEraseBlockBytes - rem
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash %q: %w", path, err)
	}

	ff := &FileFlash{f: f}
	for i := range ff.scratch {
		ff.scratch[i] = 0xFF
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat flash %q: %w", path, err)
	}
	if st.Size() > 0 {
		if st.Size() > int64(^uint32(0)) {
			_ = f.Close()
			return nil, fmt.Errorf("flash %q: image too large (%d bytes)", path, st.Size())
		}
		ff.size = uint32(st.Size())
		return ff, nil
	}

	ff.size = size
	if err := ff.eraseLocked(0, size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("format flash %q: %w", path, err)
	}
	return ff, nil
}

// Close releases the backing file.
func (f *FileFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

func (f *FileFlash) SizeBytes() uint32 { return f.size }
func (f *FileFlash) EraseBlockBytes() uint32 {
	return hostFlashEraseBlockBytes
}

func (f *FileFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *FileFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	prev := make([]byte, len(p))
	if _, err := f.f.ReadAt(prev, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if prev[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *FileFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	return f.eraseLocked(off, size)
}

func (f *FileFlash) eraseLocked(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}

	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch[:], int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
		size -= hostFlashEraseBlockBytes
	}
	return nil
}
