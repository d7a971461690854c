package registry

import (
	"errors"
	"testing"
)

var errBroken = errors.New("broken")

func TestRegisterAndCreate(t *testing.T) {
	Register("test-ok", "Test driver", func(opts Options) (*Driver, error) {
		return &Driver{}, nil
	})
	Register("test-broken", "Broken driver", func(opts Options) (*Driver, error) {
		return nil, errBroken
	})

	tests := []struct {
		id      string
		wantErr error
	}{
		{"test-ok", nil},
		{"test-broken", errBroken},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if !Exists(tt.id) {
				t.Fatalf("Exists(%q) = false", tt.id)
			}
			d, err := Create(tt.id, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, expected %v", err, tt.wantErr)
			}
			if err == nil && d == nil {
				t.Error("Create() returned a nil driver")
			}
		})
	}

	if _, err := Create("test-unknown", Options{}); err == nil {
		t.Error("Create() of an unknown driver succeeded")
	}
	if Exists("test-unknown") {
		t.Error("Exists() = true for an unknown driver")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "Dup", func(opts Options) (*Driver, error) { return &Driver{}, nil })

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate ID did not panic")
		}
	}()
	Register("test-dup", "Dup", func(opts Options) (*Driver, error) { return &Driver{}, nil })
}

func TestListSorted(t *testing.T) {
	Register("test-z", "Z", func(opts Options) (*Driver, error) { return &Driver{}, nil })
	Register("test-a", "A", func(opts Options) (*Driver, error) { return &Driver{}, nil })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	titles := make(map[string]string)
	for _, info := range list {
		titles[info.ID] = info.Title
	}
	if titles["test-a"] != "A" || titles["test-z"] != "Z" {
		t.Errorf("List() titles = %v", titles)
	}
}

func TestShutdown(t *testing.T) {
	closed := false
	d := &Driver{Close: func() error { closed = true; return nil }}
	if err := d.Shutdown(); err != nil || !closed {
		t.Errorf("Shutdown() = %v, closed = %v", err, closed)
	}
	if err := (&Driver{}).Shutdown(); err != nil {
		t.Errorf("Shutdown() without Close = %v", err)
	}
}
