package hal

import (
	"errors"
	"testing"
)

func TestMemFlashSemantics(t *testing.T) {
	f := NewMemFlash(256, 64)
	if _, err := f.WriteAt([]byte{0x00}, 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := f.WriteAt([]byte{0x01}, 0); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("err=%v want ErrFlashWriteRequiresErase", err)
	}
	if err := f.Erase(0, 64); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, 0); err != nil || b[0] != 0xFF {
		t.Fatalf("after erase: %x err=%v", b, err)
	}
	if err := f.Erase(32, 64); err == nil {
		t.Fatal("unaligned erase succeeded")
	}
}
