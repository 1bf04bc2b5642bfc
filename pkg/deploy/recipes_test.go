// Test Type: Unit Test
// Description: Tests for the per-kind deploy recipes - group shapes and a
// full node deployment against scripted collaborators.

package deploy_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/pkg/config"
	"github.com/hostup/hostup/pkg/deploy"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/hostup/hostup/pkg/system"
	"github.com/hostup/hostup/pkg/testutil"
	"github.com/hostup/hostup/pkg/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deployOptions(t *testing.T, fs filesystem.FS, runner system.Runner) deploy.Options {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return deploy.Options{
		FS:       fs,
		Runner:   runner,
		Services: system.NewSystemd(runner),
		Cloner:   system.NewGit(runner, fs),
		Config:   cfg,
	}
}

func TestStaticPlan(t *testing.T) {
	opts := deployOptions(t, testutil.NewMemoryFS(), testutil.NewScriptedRunner())

	app := deploy.App{
		Kind:   deploy.KindStatic,
		Name:   "landing",
		Domain: "example.com",
		Repo:   "https://github.com/acme/landing.git",
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "source", groups[0].Name)
	assert.Equal(t, "nginx-vhost", groups[1].Name)
	assert.NotNil(t, groups[1].Validate)
	assert.NotNil(t, groups[1].Activate)
}

func TestPHPPlan(t *testing.T) {
	opts := deployOptions(t, testutil.NewMemoryFS(), testutil.NewScriptedRunner())

	app := deploy.App{
		Kind:   deploy.KindPHP,
		Name:   "shop",
		Domain: "shop.example.com",
		Repo:   "https://github.com/acme/shop.git",
		Build:  []string{"composer install --no-dev"},
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "source", groups[0].Name)
	assert.Equal(t, "php-pool", groups[1].Name)
	assert.Equal(t, "nginx-vhost", groups[2].Name)

	// clone plus the build command
	require.Len(t, groups[0].Actions, 2)
	assert.Equal(t, "clone:/var/www/shop", groups[0].Actions[0].Action.Name())
}

func TestNodeSystemdDeployEndToEnd(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := testutil.NewScriptedRunner()
	opts := deployOptions(t, fs, runner)

	app := deploy.App{
		Kind:   deploy.KindNode,
		Name:   "api",
		Domain: "api.example.com",
		Repo:   "https://github.com/acme/api.git",
		Build:  []string{"npm ci"},
		Start:  "node server.js",
		Port:   3000,
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	tr := txn.NewRunner(fs, filepath.Join(t.TempDir(), "hostup.lock"))
	result, err := tr.Run(context.Background(), groups)
	require.NoError(t, err)
	require.False(t, result.Failed(), "run failed: %v", result.FirstError())

	unit := testutil.ReadFile(t, fs, "/etc/systemd/system/api.service")
	assert.Contains(t, unit, "ExecStart=node server.js")
	assert.Contains(t, unit, "WorkingDirectory=/var/www/api")
	assert.Contains(t, unit, "Environment=PORT=3000")

	vhost := testutil.ReadFile(t, fs, "/etc/nginx/sites-available/api.example.com")
	assert.Contains(t, vhost, "server_name api.example.com;")
	assert.Contains(t, vhost, "proxy_pass http://127.0.0.1:3000;")
	assert.NotContains(t, vhost, "{")

	calls := runner.Calls()
	assert.Contains(t, calls, "git clone --depth 1 https://github.com/acme/api.git /var/www/api")
	assert.Contains(t, calls, "npm ci")
	assert.Contains(t, calls, "systemctl daemon-reload")
	assert.Contains(t, calls, "systemctl enable api.service")
	assert.Contains(t, calls, "systemctl restart api.service")
	assert.Contains(t, calls, "nginx -t")
	assert.Contains(t, calls, "systemctl reload nginx")

	// daemon-reload happens before the unit is enabled
	var reloadIdx, enableIdx int
	for i, c := range calls {
		switch c {
		case "systemctl daemon-reload":
			reloadIdx = i
		case "systemctl enable api.service":
			enableIdx = i
		}
	}
	assert.Less(t, reloadIdx, enableIdx)
}

func TestNodeSupervisorPlan(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := testutil.NewScriptedRunner()
	opts := deployOptions(t, fs, runner)

	app := deploy.App{
		Kind:    deploy.KindNode,
		Name:    "worker",
		Domain:  "worker.example.com",
		Start:   "node worker.js",
		Port:    4000,
		Manager: deploy.ManagerSupervisor,
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)
	require.Equal(t, "supervisor-program", groups[1].Name)

	tr := txn.NewRunner(fs, filepath.Join(t.TempDir(), "hostup.lock"))
	result, err := tr.Run(context.Background(), groups)
	require.NoError(t, err)
	require.False(t, result.Failed(), "run failed: %v", result.FirstError())

	conf := testutil.ReadFile(t, fs, "/etc/supervisor/conf.d/worker.conf")
	assert.Contains(t, conf, "[program:worker]")
	assert.Contains(t, conf, "command=node worker.js")

	calls := runner.Calls()
	assert.Contains(t, calls, "supervisorctl reread")
	assert.Contains(t, calls, "supervisorctl update")
}

// siteCheckRunner records the sites-available content present whenever the
// nginx check runs, distinguishing which version of the site it parsed
type siteCheckRunner struct {
	fs   filesystem.FS
	path string
	seen []string
}

func (r *siteCheckRunner) Run(_ context.Context, cmd system.Command) (system.Result, error) {
	if cmd.Name == "nginx" {
		data, err := r.fs.ReadFile(r.path)
		if err != nil {
			r.seen = append(r.seen, "<absent>")
		} else {
			r.seen = append(r.seen, string(data))
		}
	}
	return system.Result{}, nil
}

func TestVhostCheckParsesStagedSite(t *testing.T) {
	fs := testutil.NewMemoryFS()
	// a stale version of the site is already live
	testutil.WriteFile(t, fs, "/etc/nginx/sites-available/static.example.com", "stale site")
	runner := &siteCheckRunner{fs: fs, path: "/etc/nginx/sites-available/static.example.com"}
	opts := deployOptions(t, fs, runner)

	app := deploy.App{
		Kind:   deploy.KindStatic,
		Name:   "static",
		Domain: "static.example.com",
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)

	tr := txn.NewRunner(fs, filepath.Join(t.TempDir(), "hostup.lock"))
	result, err := tr.Run(context.Background(), groups)
	require.NoError(t, err)
	require.False(t, result.Failed(), "run failed: %v", result.FirstError())

	// both the pre-commit check and the post-commit check parsed the new
	// vhost, never the stale one
	require.Len(t, runner.seen, 2)
	for _, content := range runner.seen {
		assert.Contains(t, content, "server_name static.example.com;")
		assert.NotEqual(t, "stale site", content)
	}
}

func TestFailedVhostValidationLeavesPoolUntouched(t *testing.T) {
	fs := testutil.NewMemoryFS()
	runner := testutil.NewScriptedRunner()
	runner.Script("nginx -t", system.Result{ExitCode: 1, Stderr: "emerg: invalid host"})
	opts := deployOptions(t, fs, runner)

	app := deploy.App{
		Kind:   deploy.KindPHP,
		Name:   "shop",
		Domain: "shop.example.com",
	}
	groups, err := app.Plan(opts)
	require.NoError(t, err)

	tr := txn.NewRunner(fs, filepath.Join(t.TempDir(), "hostup.lock"))
	result, err := tr.Run(context.Background(), groups)
	require.NoError(t, err)
	require.True(t, result.Failed())

	// the pool group committed before the vhost group failed; groups are
	// independently committed
	testutil.AssertNotExists(t, fs, "/etc/nginx/sites-available/shop.example.com")
	pool := testutil.ReadFile(t, fs, "/etc/php/8.2/fpm/pool.d/shop.conf")
	assert.Contains(t, pool, "[shop]")
	assert.Equal(t, 0, runner.CallCount("systemctl reload nginx"))
}

func TestPlanRejectsIncompleteApp(t *testing.T) {
	opts := deployOptions(t, testutil.NewMemoryFS(), testutil.NewScriptedRunner())

	_, err := (&deploy.App{Kind: deploy.KindStatic, Name: "landing"}).Plan(opts)
	require.Error(t, err)

	_, err = (&deploy.App{
		Kind:   deploy.KindNode,
		Name:   "api",
		Domain: "api.example.com",
		Start:  "node server.js",
		Port:   0,
	}).Plan(opts)
	require.Error(t, err)
}
