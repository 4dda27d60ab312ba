package bus

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestRuntimeDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(RuntimeDirEnv, dir)

	got, err := RuntimeDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("RuntimeDir() = %s, want %s", got, dir)
	}

	sp, _ := SockPath()
	if sp != filepath.Join(dir, SockName) {
		t.Errorf("SockPath() = %s", sp)
	}
	pp, _ := PidPath()
	if pp != filepath.Join(dir, PidName) {
		t.Errorf("PidPath() = %s", pp)
	}
}

func TestPidFile(t *testing.T) {
	t.Setenv(RuntimeDirEnv, t.TempDir())

	t.Run("no pid file", func(t *testing.T) {
		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("CheckExistingDaemon() should succeed without pid file: %v", err)
		}
	})

	t.Run("current process", func(t *testing.T) {
		if err := CreatePidFile(); err != nil {
			t.Fatalf("CreatePidFile() error = %v", err)
		}
		defer RemovePidFile()

		pp, _ := PidPath()
		data, err := os.ReadFile(pp)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != strconv.Itoa(os.Getpid()) {
			t.Errorf("pid file contains %q", data)
		}

		if err := CheckExistingDaemon(); err == nil {
			t.Error("CheckExistingDaemon() should fail while the process is alive")
		}
	})

	t.Run("stale pid", func(t *testing.T) {
		pp, _ := PidPath()
		if err := os.WriteFile(pp, []byte("999999"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(pp)

		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("stale pid should be ignored: %v", err)
		}
	})

	t.Run("garbage pid", func(t *testing.T) {
		pp, _ := PidPath()
		if err := os.WriteFile(pp, []byte("not-a-pid"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(pp)

		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("invalid pid should be ignored: %v", err)
		}
	})
}

func TestListenAndSendCommand(t *testing.T) {
	t.Setenv(RuntimeDirEnv, t.TempDir())

	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		line, _ := bufio.NewReader(c).ReadString('\n')
		if len(line) > 0 && line[0] == CmdStatus {
			c.Write([]byte("STATUS state=idle\n"))
		}
	}()

	resp, err := SendCommand(CmdStatus)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	state, err := ParseStatus(resp)
	if err != nil {
		t.Fatal(err)
	}
	if state != "idle" {
		t.Errorf("state = %s, want idle", state)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		resp    string
		want    string
		wantErr bool
	}{
		{resp: "STATUS state=recording\n", want: "recording"},
		{resp: "STATUS state=sending", want: "sending"},
		{resp: "ERR unknown='x'\n", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.resp)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v", tt.resp, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.resp, got, tt.want)
		}
	}
}

func TestSendCommandNoDaemon(t *testing.T) {
	t.Setenv(RuntimeDirEnv, t.TempDir())
	if _, err := SendCommand(CmdStatus); !errors.Is(err, ErrNotRunning) {
		t.Errorf("SendCommand() error = %v, want ErrNotRunning", err)
	}
}
