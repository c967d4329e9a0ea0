package facades

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755)
	require.NoError(t, err)
}

func TestPort(t *testing.T) {
	assert.Equal(t, int64(9001), Port(1))
	assert.Equal(t, int64(9042), Port(42))
}

func TestTenantScriptFacade_Provision(t *testing.T) {
	t.Run("passes id, port and size with G suffix", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "create_tenant.sh", `echo "create $1 $2 $3"`)

		f := NewTenantScriptFacade(dir, false, 5*time.Second)

		out, err := f.Provision(context.Background(), 7, 9007, 10)
		assert.NoError(t, err)
		assert.Equal(t, "create 7 9007 10G\n", out)
	})

	t.Run("non-zero exit surfaces stderr", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "create_tenant.sh", "echo \"no space left\" >&2\nexit 1")

		f := NewTenantScriptFacade(dir, false, 5*time.Second)

		_, err := f.Provision(context.Background(), 7, 9007, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create_tenant.sh failed")
		assert.Contains(t, err.Error(), "no space left")
	})

	t.Run("slow script hits the provisioning timeout", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "create_tenant.sh", "sleep 10")

		f := NewTenantScriptFacade(dir, false, 100*time.Millisecond)

		_, err := f.Provision(context.Background(), 7, 9007, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create_tenant.sh timed out")
	})
}

func TestTenantScriptFacade_Start(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "start_tenant.sh", `echo "start $1"`)

	f := NewTenantScriptFacade(dir, false, 5*time.Second)

	out, err := f.Start(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "start 5\n", out)
}

func TestTenantScriptFacade_Resize(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "update_tenant.sh", `echo "update $1 $2 $3"`)

	f := NewTenantScriptFacade(dir, false, 5*time.Second)

	out, err := f.Resize(context.Background(), 5, 20)
	assert.NoError(t, err)
	assert.Equal(t, "update 5 -s 20G\n", out)
}

func TestTenantScriptFacade_Destroy(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "delete_tenant.sh", `echo "delete $1"`)

	f := NewTenantScriptFacade(dir, false, 5*time.Second)

	out, err := f.Destroy(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "delete 5\n", out)
}

func TestTenantScriptFacade_MissingScript(t *testing.T) {
	f := NewTenantScriptFacade(t.TempDir(), false, 5*time.Second)

	_, err := f.Start(context.Background(), 5)
	assert.Error(t, err)
}
