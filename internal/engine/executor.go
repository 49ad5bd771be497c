package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultNodeTimeout bounds a single provider call.
const DefaultNodeTimeout = 5 * time.Minute

type ExecutorConfig struct {
	// BaseURL prefixes relative file references before they reach a provider.
	BaseURL string
	// NodeTimeout is the per-node deadline. Zero disables it.
	NodeTimeout time.Duration
}

type ExecutionResult struct {
	Success bool     `json:"success"`
	Nodes   []Node   `json:"nodes"`
	Errors  []string `json:"errors"`
}

// Executor runs validated graphs against an OperationProvider. It holds no
// per-run state and may be shared between goroutines.
type Executor struct {
	provider OperationProvider
	config   ExecutorConfig
	logger   zerolog.Logger
}

func NewExecutor(provider OperationProvider, config ExecutorConfig, logger zerolog.Logger) *Executor {
	return &Executor{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// plan is the per-run view of a graph shared by batch and streaming modes.
type plan struct {
	graph    *Graph
	index    map[string]int
	incoming map[string][]Edge
	order    []string
}

func newPlan(g *Graph) *plan {
	return &plan{
		graph:    g,
		index:    g.nodeIndex(),
		incoming: g.incomingEdges(),
		order:    TopoOrder(g),
	}
}

func (p *plan) node(id string) *Node {
	return &p.graph.Nodes[p.index[id]]
}

func executionFailed(r any) string {
	return fmt.Sprintf("Graph execution failed: %v", r)
}

func nodeFailed(id string, err error) string {
	return fmt.Sprintf("Error executing node %s: %s", id, err.Error())
}

// Execute validates g and runs every node once in topological order. Node
// results and errors are written into g.Nodes. A failing node does not stop
// the run; its error is recorded and the next node is attempted.
func (slf *Executor) Execute(ctx context.Context, g *Graph) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			slf.logger.Error().Interface("panic", r).Msg("graph execution aborted")
			result = ExecutionResult{
				Success: false,
				Nodes:   g.Nodes,
				Errors:  []string{executionFailed(r)},
			}
		}
	}()

	validation := Validate(g)
	if !validation.Valid {
		return ExecutionResult{
			Success: false,
			Nodes:   g.Nodes,
			Errors:  validation.Messages(),
		}
	}

	p := newPlan(g)
	errs := make([]string, 0)
	for _, id := range p.order {
		if err := slf.executeNode(ctx, p, p.node(id)); err != nil {
			errs = append(errs, nodeFailed(id, err))
		}
	}

	return ExecutionResult{
		Success: len(errs) == 0,
		Nodes:   g.Nodes,
		Errors:  errs,
	}
}

// executeNode runs one node and records its outcome on the node itself.
func (slf *Executor) executeNode(ctx context.Context, p *plan, node *Node) error {
	node.resetOutputs()
	log := slf.logger.With().Str("nodeId", node.ID).Str("nodeType", string(node.Type)).Logger()

	texts, image := slf.gatherInputs(p, node, log)
	call, err := SelectOperation(node, texts, image)
	if err != nil {
		log.Error().Err(err).Msg("node routing failed")
		node.Data.Error = err.Error()
		return err
	}

	log.Debug().Str("operation", string(call.Op)).Msg("executing node")
	start := time.Now()
	value, err := slf.invoke(ctx, call)
	if err != nil {
		log.Error().Err(err).Str("operation", string(call.Op)).Msg("node failed")
		node.Data.Error = err.Error()
		return err
	}

	node.Data.Result = value
	log.Info().Str("operation", string(call.Op)).Dur("elapsed", time.Since(start)).Msg("node completed")
	return nil
}

// gatherInputs collects predecessor outputs in edge-list order. Text inputs
// accumulate; image inputs overwrite each other so the last one wins.
func (slf *Executor) gatherInputs(p *plan, node *Node, log zerolog.Logger) ([]string, string) {
	var texts []string
	var image string

	edges := p.incoming[node.ID]
	for _, e := range edges {
		i, ok := p.index[e.Source]
		if !ok {
			continue
		}
		src := &p.graph.Nodes[i]

		switch src.Type {
		case NodeKindText:
			if v := firstNonEmpty(src.Data.Result, src.Data.Text); v != "" {
				texts = append(texts, v)
			}
		case NodeKindImage:
			v := firstNonEmpty(src.Data.Result, src.Data.FileURL)
			if v == "" {
				continue
			}
			if image != "" {
				log.Warn().Str("sourceId", src.ID).Msg("multiple image inputs, keeping the last one")
			}
			image = v
		}
	}

	if len(edges) == 0 {
		switch node.Type {
		case NodeKindText:
			if node.Data.Text != "" {
				texts = append(texts, node.Data.Text)
			}
		case NodeKindImage, NodeKindVideo:
			image = node.Data.FileURL
		}
	}

	return texts, ResolveFileRef(slf.config.BaseURL, image)
}

// invoke calls the provider under the per-node deadline. A panic raised by
// the provider is returned as the node's error.
func (slf *Executor) invoke(ctx context.Context, call OperationCall) (value string, err error) {
	if slf.config.NodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, slf.config.NodeTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation %s panicked: %v", call.Op, r)
		}
	}()

	value, err = call.Invoke(ctx, slf.provider)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("operation %s timed out after %s: %w", call.Op, slf.config.NodeTimeout, err)
		}
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("operation %s returned an empty result", call.Op)
	}
	return value, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
