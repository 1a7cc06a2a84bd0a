package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/google/shlex"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/log"
)

// Provider runs a command for every console request. The command receives a
// JSON description of the request on stdin and prints a JSON object with any
// of endpointUrl, query, variables, result and operationName on stdout. Empty
// output means no overrides, and a null value is the same as a missing key.
type Provider struct {
	Args []string
}

type requestInfo struct {
	Method string          `json:"method,omitempty"`
	Path   string          `json:"path,omitempty"`
	Query  graphiql.Fields `json:"query"`
	Body   graphiql.Fields `json:"body"`
}

func NewProvider(command string) (*Provider, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to split exec args: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty exec command")
	}
	return &Provider{Args: args}, nil
}

func (p *Provider) Override(ctx context.Context, req *graphiql.Request) (graphiql.Config, error) {
	info := requestInfo{
		Query: req.Query,
		Body:  req.Body,
	}
	if req.HTTP != nil {
		info.Method = req.HTTP.Method
		info.Path = req.HTTP.URL.Path
	}
	input, err := json.Marshal(info)
	if err != nil {
		return graphiql.Config{}, err
	}

	cmd := exec.CommandContext(ctx, p.Args[0], p.Args[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr := log.Writer(0, fmt.Sprintf("exec: stderr: %s: ", p.Args[0]))
	defer stderr.Close()
	cmd.Stderr = stderr

	log.Logf(10, "exec: starting: %s", cmd)
	if err := cmd.Run(); err != nil {
		return graphiql.Config{}, fmt.Errorf("error running %s: %w", p.Args[0], err)
	}
	log.Logf(10, "exec: exited: %d", cmd.ProcessState.Pid())

	var cfg graphiql.Config
	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(out, &cfg); err != nil {
		return graphiql.Config{}, fmt.Errorf("error decoding output of %s: %w", p.Args[0], err)
	}
	return cfg, nil
}
