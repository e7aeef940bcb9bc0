package service

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	calls []string
}

type fakeService struct {
	name    string
	deps    []string
	rec     *recorder
	initErr error
	args    []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.rec.calls = append(f.rec.calls, "init:"+f.name)
	f.args = args
	return f.initErr
}

func (f *fakeService) Start() error {
	f.rec.calls = append(f.rec.calls, "start:"+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	f.rec.calls = append(f.rec.calls, "stop:"+f.name)
	return nil
}

func TestHub_DependencyOrder(t *testing.T) {
	rec := &recorder{}
	h := NewHub()
	h.Register(&fakeService{name: "host", deps: []string{"session"}, rec: rec})
	h.Register(&fakeService{name: "session", rec: rec})
	h.Register(&fakeService{name: "config", rec: rec})

	if err := h.InitAll("shared"); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()

	want := []string{
		"init:config", "init:session", "init:host",
		"start:config", "start:session", "start:host",
		"stop:host", "stop:session", "stop:config",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("Expected %v, got %v", want, rec.calls)
	}

	host := MustGet[*fakeService](h, "host")
	if len(host.args) != 1 || host.args[0] != "shared" {
		t.Errorf("Expected shared init args, got %v", host.args)
	}
}

func TestHub_InitRollback(t *testing.T) {
	rec := &recorder{}
	h := NewHub()
	h.Register(&fakeService{name: "a", rec: rec})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, rec: rec, initErr: errors.New("boom")})

	err := h.InitAll()
	if err == nil {
		t.Fatal("Expected init error")
	}
	want := []string{"init:a", "init:b", "stop:a"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("Expected %v, got %v", want, rec.calls)
	}
}

func TestHub_Errors(t *testing.T) {
	rec := &recorder{}
	h := NewHub()
	h.Register(&fakeService{name: "a", rec: rec})
	if err := h.Register(&fakeService{name: "a", rec: rec}); err == nil {
		t.Error("Expected duplicate registration error")
	}

	h.Register(&fakeService{name: "b", deps: []string{"missing"}, rec: rec})
	if err := h.InitAll(); err == nil {
		t.Error("Expected unregistered dependency error")
	}

	cyc := NewHub()
	cyc.Register(&fakeService{name: "x", deps: []string{"y"}, rec: rec})
	cyc.Register(&fakeService{name: "y", deps: []string{"x"}, rec: rec})
	if err := cyc.InitAll(); err == nil {
		t.Error("Expected circular dependency error")
	}
}
