package process

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Proc is a running subprocess whose stdout is consumed as a stream.
type Proc struct {
	cmd         *exec.Cmd
	stdout      io.ReadCloser
	gracePeriod time.Duration

	mu      sync.Mutex
	stopped bool
}

// StartStream launches a subprocess and returns a handle for reading its
// stdout incrementally. The caller must call Stop when done.
func StartStream(cmd Command) (*Proc, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = 5 * time.Second
	}

	c := exec.Command(cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	// Use process group so Stop can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}

	return &Proc{cmd: c, stdout: stdout, gracePeriod: gracePeriod}, nil
}

// Stdout returns the process output stream. It is closed by Stop.
func (p *Proc) Stdout() io.Reader {
	return p.stdout
}

// Signal delivers sig to the process group.
func (p *Proc) Signal(sig syscall.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.cmd.Process == nil {
		return fmt.Errorf("process: not running")
	}
	return syscall.Kill(-p.cmd.Process.Pid, sig)
}

// Stop terminates the process: SIGTERM first, SIGKILL after the grace
// period. It is safe to call more than once.
func (p *Proc) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	if p.cmd.Process != nil {
		_ = syscall.Kill(-p.cmd.Process.Pid, syscall.SIGTERM)
	}

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(p.gracePeriod):
		if p.cmd.Process != nil {
			_ = syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
	}
	return nil
}
