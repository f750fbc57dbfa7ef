package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_DefaultsWhenMissing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}

	b, err := s.Bool("ToDosIsLoaded")
	if err != nil || b {
		t.Fatalf("Bool()=%v,%v, want false,nil", b, err)
	}
	n, err := s.Int("NextId", 1)
	if err != nil || n != 1 {
		t.Fatalf("Int()=%d,%v, want 1,nil", n, err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	s1, _ := Open(path)
	if err := s1.SetBool("ToDosIsLoaded", true); err != nil {
		t.Fatalf("SetBool() err=%v", err)
	}
	if err := s1.SetInt("NextId", 31); err != nil {
		t.Fatalf("SetInt() err=%v", err)
	}

	s2, _ := Open(path)
	b, err := s2.Bool("ToDosIsLoaded")
	if err != nil || !b {
		t.Fatalf("Bool()=%v,%v, want true,nil", b, err)
	}
	n, err := s2.Int("NextId", 1)
	if err != nil || n != 31 {
		t.Fatalf("Int()=%d,%v, want 31,nil", n, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if !strings.Contains(string(data), "NextId: 31") {
		t.Errorf("file content=%q, want NextId: 31", data)
	}
}

func TestFileStore_WrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("NextId: soon\n"), 0600); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}

	s, _ := Open(path)
	if _, err := s.Int("NextId", 1); err == nil {
		t.Fatalf("Int() err=nil, want type error")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("NextId: [unclosed\n"), 0600); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}

	s, _ := Open(path)
	if _, err := s.Bool("ToDosIsLoaded"); err == nil {
		t.Fatalf("Bool() err=nil, want parse error")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("Open(\"\") err=nil, want error")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.SetInt("NextId", 5); err != nil {
		t.Fatalf("SetInt() err=%v", err)
	}
	if n, _ := m.Int("NextId", 1); n != 5 {
		t.Fatalf("Int()=%d, want 5", n)
	}
}
