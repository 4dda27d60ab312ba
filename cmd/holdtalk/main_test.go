package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/holdtalk/holdtalk/internal/bus"
	"github.com/holdtalk/holdtalk/internal/models/whisper"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"run", "serve", "status", "version", "stop", "configure", "doctor", "model"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

// fakeDaemon answers one control socket request with reply.
func fakeDaemon(t *testing.T, reply string) <-chan byte {
	t.Helper()
	t.Setenv(bus.RuntimeDirEnv, t.TempDir())

	ln, err := bus.Listen()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	got := make(chan byte, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		line, _ := bufio.NewReader(c).ReadString('\n')
		if len(line) > 0 {
			got <- line[0]
		}
		c.Write([]byte(reply))
	}()
	return got
}

func TestStatusCmd(t *testing.T) {
	got := fakeDaemon(t, "STATUS state=recording\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"status"})
	if err := root.Execute(); err != nil {
		t.Fatalf("status: %v", err)
	}
	if cmd := <-got; cmd != bus.CmdStatus {
		t.Errorf("sent %q, want %q", cmd, bus.CmdStatus)
	}
	if out.String() != "recording\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestStopCmd(t *testing.T) {
	got := fakeDaemon(t, "OK quitting\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"stop"})
	if err := root.Execute(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if cmd := <-got; cmd != bus.CmdQuit {
		t.Errorf("sent %q, want %q", cmd, bus.CmdQuit)
	}
	if out.String() != "OK quitting\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestStatusCmd_NoDaemon(t *testing.T) {
	t.Setenv(bus.RuntimeDirEnv, t.TempDir())

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"status"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error without a running daemon")
	}
}

func TestPrintModels(t *testing.T) {
	store := &whisper.Store{Dir: t.TempDir()}

	var out bytes.Buffer
	printModels(&out, store)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(whisper.List()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(whisper.List()))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "  [ ]") {
			t.Errorf("nothing is installed, got %q", line)
		}
	}
	if !strings.Contains(out.String(), "base.en - Base English [142 MB, english only]") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}
