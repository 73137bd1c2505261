// Package prefs is a small key-value store kept as an append-only record log on a flash region.
//
// Record layout (little-endian):
//
//	u8  magic (0x5A)
//	u8  key length
//	u16 value length (0xFFFF marks a deletion)
//	key bytes
//	value bytes
//	u32 CRC-32 (IEEE) of everything above
//
// The log ends at the first erased byte. The last record for a key wins. When the region
// fills up it is erased and the live entries are rewritten.
package prefs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"sync"

	"sparkcalc/hal"
)

const (
	recordMagic = 0x5A
	headerBytes = 4
	crcBytes    = 4
	tombstone   = 0xFFFF

	MaxKeyBytes   = 0xFF
	MaxValueBytes = 0xFFFE
)

var (
	ErrKeyTooLong   = errors.New("prefs: key too long")
	ErrValueTooLong = errors.New("prefs: value too long")
	ErrNoSpace      = errors.New("prefs: no space left in region")
	ErrBadRegion    = errors.New("prefs: region not aligned to erase blocks")
)

// Store is a key-value store on a flash region. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	flash hal.Flash
	off   uint32
	size  uint32

	values map[string]string
	end    uint32
	// dirty is set when the scan stopped on a damaged record; the next write compacts.
	dirty bool
}

// Open scans the region [off, off+size) and returns a Store over it. A size of 0 uses
// the rest of the flash.
func Open(flash hal.Flash, off, size uint32) (*Store, error) {
	if flash == nil {
		return nil, fmt.Errorf("%w: no flash", ErrBadRegion)
	}
	total := flash.SizeBytes()
	if size == 0 && off < total {
		size = total - off
	}
	block := flash.EraseBlockBytes()
	if block == 0 || off%block != 0 || size%block != 0 || size == 0 || off+size > total || off+size < off {
		return nil, fmt.Errorf("%w: off=%d size=%d block=%d flash=%d", ErrBadRegion, off, size, block, total)
	}

	s := &Store{flash: flash, off: off, size: size, values: make(map[string]string)}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) scan() error {
	region := make([]byte, s.size)
	if _, err := s.flash.ReadAt(region, s.off); err != nil {
		return fmt.Errorf("prefs: read region: %w", err)
	}

	pos := uint32(0)
	for pos < s.size {
		if region[pos] == 0xFF {
			break
		}
		key, val, del, n, ok := decodeRecord(region[pos:])
		if !ok {
			s.dirty = true
			break
		}
		if del {
			delete(s.values, key)
		} else {
			s.values[key] = val
		}
		pos += n
	}
	s.end = pos
	return nil
}

// Get returns the value stored for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under key. Writing the value already stored is a no-op.
func (s *Store) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) > MaxValueBytes {
		return fmt.Errorf("%w: %d bytes", ErrValueTooLong, len(value))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.values[key]; ok && cur == value {
		return nil
	}
	return s.appendLocked(key, value, false)
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	return s.appendLocked(key, "", true)
}

func (s *Store) appendLocked(key, value string, del bool) error {
	rec := encodeRecord(key, value, del)
	if uint32(len(rec)) > s.size {
		return fmt.Errorf("%w: record is %d bytes", ErrNoSpace, len(rec))
	}

	if !s.dirty && s.end+uint32(len(rec)) <= s.size {
		_, err := s.flash.WriteAt(rec, s.off+s.end)
		if err == nil {
			s.end += uint32(len(rec))
			s.apply(key, value, del)
			return nil
		}
		if !errors.Is(err, hal.ErrFlashWriteRequiresErase) {
			return fmt.Errorf("prefs: write record: %w", err)
		}
	}

	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	if del {
		delete(next, key)
	} else {
		next[key] = value
	}
	return s.compactLocked(next)
}

func (s *Store) apply(key, value string, del bool) {
	if del {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// compactLocked erases the region and writes values as a fresh log.
func (s *Store) compactLocked(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var log []byte
	for _, k := range keys {
		log = append(log, encodeRecord(k, values[k], false)...)
	}
	if uint32(len(log)) > s.size {
		return fmt.Errorf("%w: %d bytes of live data", ErrNoSpace, len(log))
	}

	// Until the rewrite lands, s.values keeps the last committed view and the region is
	// marked dirty so the next write compacts again.
	s.dirty = true
	if err := s.flash.Erase(s.off, s.size); err != nil {
		return fmt.Errorf("prefs: erase region: %w", err)
	}
	if len(log) > 0 {
		if _, err := s.flash.WriteAt(log, s.off); err != nil {
			return fmt.Errorf("prefs: rewrite region: %w", err)
		}
	}
	s.end = uint32(len(log))
	s.dirty = false
	s.values = values
	return nil
}

func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrKeyTooLong)
	}
	if len(key) > MaxKeyBytes {
		return fmt.Errorf("%w: %d bytes", ErrKeyTooLong, len(key))
	}
	return nil
}

func encodeRecord(key, value string, del bool) []byte {
	vlen := len(value)
	if del {
		value = ""
		vlen = tombstone
	}
	buf := make([]byte, headerBytes+len(key)+len(value)+crcBytes)
	buf[0] = recordMagic
	buf[1] = byte(len(key))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(vlen))
	n := headerBytes
	n += copy(buf[n:], key)
	n += copy(buf[n:], value)
	binary.LittleEndian.PutUint32(buf[n:], crc32.ChecksumIEEE(buf[:n]))
	return buf
}

func decodeRecord(b []byte) (key, value string, del bool, n uint32, ok bool) {
	if len(b) < headerBytes || b[0] != recordMagic {
		return "", "", false, 0, false
	}
	klen := int(b[1])
	vlen := int(binary.LittleEndian.Uint16(b[2:4]))
	if vlen == tombstone {
		del = true
		vlen = 0
	}
	total := headerBytes + klen + vlen + crcBytes
	if klen == 0 || len(b) < total {
		return "", "", false, 0, false
	}
	body := b[:total-crcBytes]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(b[total-crcBytes:total]) {
		return "", "", false, 0, false
	}
	key = string(body[headerBytes : headerBytes+klen])
	value = string(body[headerBytes+klen:])
	return key, value, del, uint32(total), true
}
