package injection

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

const ydotoolSocketEnv = "YDOTOOL_SOCKET"

// ydotoolBackend presses keys through ydotoold's uinput device, so it works on
// any compositor but needs the daemon running.
type ydotoolBackend struct {
	socket string // resolved by Available
}

func NewYdotoolBackend() Backend {
	return &ydotoolBackend{}
}

func (y *ydotoolBackend) Name() string { return "ydotool" }

func (y *ydotoolBackend) Available() error {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return fmt.Errorf("ydotool not found: %w", err)
	}
	if _, err := exec.LookPath("ydotoold"); err != nil {
		// older builds talk to uinput directly
		return nil
	}

	sock := findSocket(ydotoolSocketCandidates())
	if sock == "" {
		return fmt.Errorf("ydotoold socket not found, is ydotoold running?")
	}
	if err := pingSocket(sock); err != nil {
		return fmt.Errorf("ydotoold not responding at %s: %w", sock, err)
	}
	y.socket = sock
	return nil
}

func ydotoolSocketCandidates() []string {
	var paths []string
	if env := os.Getenv(ydotoolSocketEnv); env != "" {
		paths = append(paths, env)
	}
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ".ydotool_socket"))
	}
	return append(paths,
		filepath.Join("/run/user", strconv.Itoa(os.Getuid()), ".ydotool_socket"),
		"/tmp/.ydotool_socket",
	)
}

func findSocket(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// pingSocket tries datagram first (ydotoold 1.0.4 and later), then stream.
func pingSocket(path string) error {
	conn, err := net.Dial("unixgram", path)
	if err != nil {
		conn, err = net.DialTimeout("unix", path, 500*time.Millisecond)
	}
	if err != nil {
		return err
	}
	return conn.Close()
}

func (y *ydotoolBackend) Press(ctx context.Context, s Shortcut, timeout time.Duration) error {
	args, err := ydotoolArgs(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ydotool", args...)
	if y.socket != "" {
		cmd.Env = append(os.Environ(), ydotoolSocketEnv+"="+y.socket)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ydotool %v: %w (%s)", args, err, out)
	}
	return nil
}

// ydotoolArgs builds "key 29:1 42:1 47:1 47:0 42:0 29:0" for ctrl+shift+v:
// press in order, release in reverse.
func ydotoolArgs(s Shortcut) ([]string, error) {
	keys := append(append([]string{}, s.Modifiers...), s.Key)
	args := make([]string, 1, 2*len(keys)+1)
	args[0] = "key"
	for _, k := range keys {
		code, ok := evdevCodes[k]
		if !ok {
			return nil, fmt.Errorf("ydotool: no key code for %q", k)
		}
		args = append(args, strconv.Itoa(code)+":1")
	}
	for i := len(keys) - 1; i >= 0; i-- {
		args = append(args, strconv.Itoa(evdevCodes[keys[i]])+":0")
	}
	return args, nil
}
