package main

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// TestWireProviderSets 执行 `wire check`，在 go test 阶段暴露缺失的 Bind 或 Provider。
func TestWireProviderSets(t *testing.T) {
	if _, err := exec.LookPath("wire"); err != nil {
		t.Skip("wire binary not installed")
	}
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot resolve runtime caller information")
	}
	moduleRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	packages := []string{
		"./cmd/server",
		"./cmd/tasks/accounts",
		"./cmd/tasks/outbox",
	}

	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()
			cmd := exec.Command("wire", "check", pkg)
			cmd.Dir = moduleRoot
			output, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatalf("wire check %s failed: %v\n%s", pkg, err, string(output))
			}
		})
	}
}
