package facades

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
)

// Script names of the external tenant lifecycle suite.
const (
	createScript = "create_tenant.sh"
	startScript  = "start_tenant.sh"
	updateScript = "update_tenant.sh"
	deleteScript = "delete_tenant.sh"
)

// Port returns the deterministic port a tenant's storage listens on.
func Port(userID int64) int64 {
	return 9000 + userID
}

// TenantScriptFacade drives tenant lifecycle operations by shelling out to
// the external provisioning scripts. Each call runs the script exactly once;
// a non-zero exit or timeout is surfaced as an error carrying the captured
// standard error stream.
type TenantScriptFacade struct {
	scriptsDir       string
	useSudo          bool
	provisionTimeout time.Duration
}

// NewTenantScriptFacade creates a facade running scripts from scriptsDir.
func NewTenantScriptFacade(scriptsDir string, useSudo bool, provisionTimeout time.Duration) *TenantScriptFacade {
	return &TenantScriptFacade{
		scriptsDir:       scriptsDir,
		useSudo:          useSudo,
		provisionTimeout: provisionTimeout,
	}
}

// Provision creates the storage instance for a new user. The call is bounded
// by the facade's provisioning timeout.
func (f *TenantScriptFacade) Provision(ctx context.Context, userID, port, sizeGB int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.provisionTimeout)
	defer cancel()

	return f.run(ctx, createScript,
		fmt.Sprintf("%d", userID),
		fmt.Sprintf("%d", port),
		fmt.Sprintf("%dG", sizeGB),
	)
}

// Start starts the user's storage instance.
func (f *TenantScriptFacade) Start(ctx context.Context, userID int64) (string, error) {
	return f.run(ctx, startScript, fmt.Sprintf("%d", userID))
}

// Resize changes the size of the user's storage instance.
func (f *TenantScriptFacade) Resize(ctx context.Context, userID, sizeGB int64) (string, error) {
	return f.run(ctx, updateScript,
		fmt.Sprintf("%d", userID),
		"-s", fmt.Sprintf("%dG", sizeGB),
	)
}

// Destroy removes the user's storage instance.
func (f *TenantScriptFacade) Destroy(ctx context.Context, userID int64) (string, error) {
	return f.run(ctx, deleteScript, fmt.Sprintf("%d", userID))
}

// run executes one script with the given arguments and returns its stdout.
func (f *TenantScriptFacade) run(ctx context.Context, script string, args ...string) (string, error) {
	path := filepath.Join(f.scriptsDir, script)

	name := path
	cmdArgs := args
	if f.useSudo {
		name = "sudo"
		cmdArgs = append([]string{path}, args...)
	}

	cmd := exec.CommandContext(ctx, name, cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	logger.Log.Infow(
		"script", script,
		"args", args,
		"stdout", stdout.String(),
		"stderr", stderr.String(),
		"error", err,
	)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), fmt.Errorf("%s timed out: %w", script, ctxErr)
		}
		return stdout.String(), fmt.Errorf("%s failed: %w: %s", script, err, stderr.String())
	}

	return stdout.String(), nil
}
