package txn

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hostup/hostup/pkg/errors"
	"github.com/hostup/hostup/pkg/filesystem"
	"github.com/pelletier/go-toml/v2"
)

// Receipt records one run's per-group outcomes. Receipts live under the
// state directory and are the only thing hostup persists besides the target
// files themselves.
type Receipt struct {
	Command    string         `toml:"command"`
	StartedAt  time.Time      `toml:"started_at"`
	FinishedAt time.Time      `toml:"finished_at"`
	Success    bool           `toml:"success"`
	Groups     []GroupReceipt `toml:"groups"`
}

// GroupReceipt is one group's outcome in a receipt
type GroupReceipt struct {
	Name       string          `toml:"name"`
	Error      string          `toml:"error,omitempty"`
	RolledBack bool            `toml:"rolled_back,omitempty"`
	Actions    []ActionReceipt `toml:"actions"`
}

// ActionReceipt is one action's outcome in a receipt
type ActionReceipt struct {
	Name    string `toml:"name"`
	Outcome string `toml:"outcome"`
	Error   string `toml:"error,omitempty"`
}

// NewReceipt builds a receipt from a run result
func NewReceipt(command string, startedAt time.Time, result *RunResult) *Receipt {
	receipt := &Receipt{
		Command:    command,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Success:    !result.Failed(),
	}
	for _, g := range result.Groups {
		gr := GroupReceipt{Name: g.Group, RolledBack: g.RolledBack}
		if g.Err != nil {
			gr.Error = g.Err.Error()
		}
		for _, a := range g.Results {
			ar := ActionReceipt{Name: a.Action, Outcome: a.Outcome.String()}
			if a.Err != nil {
				ar.Error = a.Err.Error()
			}
			gr.Actions = append(gr.Actions, ar)
		}
		receipt.Groups = append(receipt.Groups, gr)
	}
	return receipt
}

// Write stores the receipt under dir and returns its path
func (r *Receipt) Write(fs filesystem.FS, dir string) (string, error) {
	data, err := toml.Marshal(r)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot marshal receipt")
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot create %q", dir)
	}
	name := "run-" + r.StartedAt.Format("20060102-150405") + ".toml"
	path := filepath.Join(dir, name)
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write receipt %q", path)
	}
	return path, nil
}

// LatestReceipt loads the most recent receipt under dir
func LatestReceipt(fs filesystem.FS, dir string) (*Receipt, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Newf(errors.ErrNotFound, "no receipts under %q", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "run-") && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no receipts under %q", dir)
	}
	// Receipt names embed a sortable timestamp
	sort.Strings(names)
	path := filepath.Join(dir, names[len(names)-1])

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read receipt %q", path)
	}
	var receipt Receipt
	if err := toml.Unmarshal(data, &receipt); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "malformed receipt %q", path)
	}
	return &receipt, nil
}
