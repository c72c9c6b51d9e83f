package wasi

import (
	"context"
	"errors"
	"testing"
	"time"
)

// emptyModule exports a _start that returns immediately.
var emptyModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: () -> ()
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	// function 0 has type 0
	0x03, 0x02, 0x01, 0x00,
	// export "_start" = func 0
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	// code: end
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

// helloModule writes "hi\n" to stdout with fd_write.
var helloModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types: (i32 i32 i32 i32) -> i32, () -> ()
	0x01, 0x0c, 0x02,
	0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x00, 0x00,
	// import wasi_snapshot_preview1.fd_write as func 0
	0x02, 0x23, 0x01,
	0x16, 'w', 'a', 's', 'i', '_', 's', 'n', 'a', 'p', 's', 'h', 'o', 't', '_', 'p', 'r', 'e', 'v', 'i', 'e', 'w', '1',
	0x08, 'f', 'd', '_', 'w', 'r', 'i', 't', 'e',
	0x00, 0x00,
	// function 1 has type 1
	0x03, 0x02, 0x01, 0x01,
	// one memory of one page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export "_start" = func 1, "memory" = memory 0
	0x07, 0x13, 0x02,
	0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	// code: iovec{buf: 8, len: 3} at 0, fd_write(1, 0, 1, 20), drop
	0x0a, 0x1d, 0x01, 0x1b, 0x00,
	0x41, 0x00, 0x41, 0x08, 0x36, 0x02, 0x00,
	0x41, 0x04, 0x41, 0x03, 0x36, 0x02, 0x00,
	0x41, 0x01, 0x41, 0x00, 0x41, 0x01, 0x41, 0x14,
	0x10, 0x00, 0x1a, 0x0b,
	// data: "hi\n" at 8
	0x0b, 0x09, 0x01, 0x00, 0x41, 0x08, 0x0b, 0x03, 'h', 'i', '\n',
}

// spinModule loops forever in _start.
var spinModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	// code: loop br 0 end
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x03, 0x40, 0x0c, 0x00, 0x0b, 0x0b,
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		module     []byte
		wantStdout string
	}{
		{name: "empty program", module: emptyModule, wantStdout: ""},
		{name: "writes stdout", module: helloModule, wantStdout: "hi\n"},
	}

	r := NewRunner(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, err := r.Run(context.Background(), "lesson", tt.module)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if exec.Stdout != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", exec.Stdout, tt.wantStdout)
			}
			if exec.ExitCode != 0 {
				t.Errorf("ExitCode = %d, want 0", exec.ExitCode)
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	r := NewRunner(Config{Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := r.Run(context.Background(), "spin", spinModule)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run() took %s after the deadline", elapsed)
	}
}

func TestRunInvalidModule(t *testing.T) {
	r := NewRunner(Config{})
	if _, err := r.Run(context.Background(), "bad", []byte("not wasm")); err == nil {
		t.Error("Run() should reject bytes that are not a module")
	}
}
