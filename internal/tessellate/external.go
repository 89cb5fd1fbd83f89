package tessellate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/ifc"
)

// External runs an external converter such as IfcConvert once for the
// whole input, reads the OBJ it writes and serves one soup per element.
// Groups are matched by GlobalId.
type External struct {
	Command string
	Args    []string // {input} and {output} are substituted
	Timeout time.Duration

	input string
	log   *zap.Logger

	once   sync.Once
	groups map[string]*mesh.Geometry
	err    error
}

// NewExternal creates an external tessellator for the model at input
func NewExternal(command string, args []string, timeout time.Duration, input string, log *zap.Logger) *External {
	if log == nil {
		log = zap.NewNop()
	}
	return &External{
		Command: command,
		Args:    args,
		Timeout: timeout,
		input:   input,
		log:     log,
	}
}

// Tessellate returns the soup of the element's group. The converter runs on
// the first call; its failure is reported for every element.
func (x *External) Tessellate(ctx context.Context, e ifc.Element) (*mesh.Geometry, error) {
	x.once.Do(func() {
		x.groups, x.err = x.run(ctx)
	})
	if x.err != nil {
		return nil, x.err
	}

	g, ok := x.groups[e.GlobalID]
	if !ok || g.Empty() {
		return nil, ErrNoShape
	}
	return g, nil
}

func (x *External) run(ctx context.Context) (map[string]*mesh.Geometry, error) {
	path, err := exec.LookPath(x.Command)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", x.Command, err)
	}

	input, err := filepath.Abs(x.input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", x.input, err)
	}

	workDir, err := os.MkdirTemp("", "goifc-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	output := filepath.Join(workDir, "model.obj")

	if x.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, expandArgs(x.Args, input, output)...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	x.log.Info("running external tessellator", zap.String("command", path), zap.Strings("args", cmd.Args[1:]))

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to tessellate %s: %v", x.input, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("\nstderr: ")
			errMsg.WriteString(stderr.String())
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", errMsg.String(), ctx.Err())
		}
		return nil, fmt.Errorf("%s", errMsg.String())
	}

	file, err := os.Open(output)
	if err != nil {
		return nil, fmt.Errorf("failed to open converter output: %w", err)
	}
	defer file.Close()

	groups, err := parseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse converter output: %w", err)
	}

	x.log.Info("external tessellation finished",
		zap.Int("groups", len(groups)),
		zap.Duration("elapsed", time.Since(start)))
	return groups, nil
}

func expandArgs(args []string, input, output string) []string {
	expanded := make([]string, len(args))
	replacer := strings.NewReplacer("{input}", input, "{output}", output)
	for i, arg := range args {
		expanded[i] = replacer.Replace(arg)
	}
	return expanded
}
