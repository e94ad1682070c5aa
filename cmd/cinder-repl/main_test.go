package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestSessionTypeCommand(t *testing.T) {
	var buf bytes.Buffer
	s := &session{out: &buf}
	s.items = []string{
		"typedef int UserId;",
		"int add(int a, int b) { return a + b; }",
	}

	s.command(":type UserId")
	s.command(":type add")
	s.command(":type ghost")

	out := buf.String()
	if !strings.Contains(out, "UserId = int") {
		t.Fatalf("alias not resolved:\n%s", out)
	}
	if !strings.Contains(out, "add: fn(int, int) -> int") {
		t.Fatalf("symbol type not shown:\n%s", out)
	}
	if !strings.Contains(out, "ghost is not declared") {
		t.Fatalf("unknown name not reported:\n%s", out)
	}
}

func TestSessionTypeCommandUsage(t *testing.T) {
	var buf bytes.Buffer
	s := &session{out: &buf}

	if quit := s.command(":type"); quit {
		t.Fatal("a malformed :type must not exit the session")
	}
	if !strings.Contains(buf.String(), "usage: :type <name>") {
		t.Fatalf("missing usage hint:\n%s", buf.String())
	}
}
