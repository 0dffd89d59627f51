package sources

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dshills/taskstorm/internal/task"
)

func taskNames(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name()
	}
	return out
}

func TestMakefilePhonyTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Makefile")
	writeFile(t, path, `.PHONY: build test clean

VERSION = 1.0

build:
	go build ./...

test:
	go test ./...

clean:
	rm -rf bin

bin/tool: main.go
	go build -o bin/tool .
`)

	src, err := NewMakefileSource(path, 1)
	if err != nil {
		t.Fatalf("NewMakefileSource: %v", err)
	}

	// .PHONY declared: only phony targets are tasks.
	got := taskNames(src.Tasks(task.Filter{}))
	want := []string{"build", "test", "clean"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tasks = %v, want %v", got, want)
	}

	spec, ok := src.Tasks(task.Filter{})[0].Prepare(task.NewContext(dir))
	if !ok {
		t.Fatal("Prepare failed")
	}
	if spec.Command != "make" || len(spec.Args) != 1 || spec.Args[0] != "build" {
		t.Errorf("spec = %q %v", spec.Command, spec.Args)
	}
}

func TestMakefileNoPhony(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Makefile")
	writeFile(t, path, `all:
	echo all

install:
	echo install
`)

	src, err := NewMakefileSource(path, 1)
	if err != nil {
		t.Fatalf("NewMakefileSource: %v", err)
	}

	// Without .PHONY every plain target is listed.
	got := taskNames(src.Tasks(task.Filter{}))
	want := []string{"all", "install"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tasks = %v, want %v", got, want)
	}
}

func TestMakefileSkipsInternalTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Makefile")
	writeFile(t, path, `.SUFFIXES:

_helper:
	echo hidden

%.o:
	echo pattern

CFLAGS := -O2

build:
	echo build
`)

	src, err := NewMakefileSource(path, 1)
	if err != nil {
		t.Fatalf("NewMakefileSource: %v", err)
	}

	got := taskNames(src.Tasks(task.Filter{}))
	if !reflect.DeepEqual(got, []string{"build"}) {
		t.Errorf("tasks = %v, want [build]", got)
	}
}
