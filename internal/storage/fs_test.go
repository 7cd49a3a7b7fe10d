package storage

import (
	"io"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestFSStore_PutGet(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := UploadKey("PPL Met Paper.pdf", time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	if _, err := s.Put(key, strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatal(err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "%PDF-1.4" {
		t.Errorf("got %q", b)
	}
}

func TestUploadKey(t *testing.T) {
	key := UploadKey("../../etc/My File.pdf", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))
	re := regexp.MustCompile(`^uploads/2026/11/[0-9a-f-]{36}-My_File\.pdf$`)
	if !re.MatchString(key) {
		t.Errorf("key = %q", key)
	}
	if k := UploadKey("", time.Now()); !strings.HasSuffix(k, "-upload") {
		t.Errorf("empty name key = %q", k)
	}
}

func TestFSStore_RejectsEmptyKey(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	if _, err := s.Put("", strings.NewReader("x")); err == nil {
		t.Error("expected error for empty key")
	}
}
