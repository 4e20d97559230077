// Package flow implements the client-side execution engine for node graphs:
// dependency-ordered scheduling, branch pruning, executor-driven loops and
// cooperative cancellation.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kohai-io/flowrun/pkg/eventbus"
	"github.com/kohai-io/flowrun/pkg/events"
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/otelhelper"
	"github.com/kohai-io/flowrun/pkg/protocol"
	"github.com/kohai-io/flowrun/pkg/registry"
)

// NodeCallback is invoked after every node settles with a status, including
// once per loop iteration for nodes inside an "each" subgraph. The result is
// the node's output on success and its error message on failure. Callbacks
// run synchronously on the execution goroutine, so calling Abort from one
// stops the run before the next node starts.
type NodeCallback func(nodeID string, status models.NodeStatus, result any)

// Executor runs flows. One executor can run flows sequentially; Abort applies
// to the run in progress.
type Executor struct {
	registry *registry.Registry
	caps     protocol.Capabilities
	logger   *slog.Logger
	tracer   trace.Tracer
	bus      eventbus.EventBus

	aborted atomic.Bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithTracer enables span emission for the run and each node step.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

// WithEventBus enables lifecycle event publication.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(e *Executor) {
		e.bus = bus
	}
}

// NewExecutor creates an executor backed by the given node registry and
// capability set.
func NewExecutor(reg *registry.Registry, caps protocol.Capabilities, opts ...Option) *Executor {
	executor := &Executor{
		registry: reg,
		caps:     caps,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// Abort requests cooperative cancellation of the run in progress. The
// currently executing node finishes; no further node starts.
func (e *Executor) Abort() {
	e.aborted.Store(true)
}

// Execute runs the flow to completion and returns the run result.
//
// Configuration problems (structural validation failure, missing input or
// output node, a cycle, an invalid node config) are reported as an error
// before any node runs. Node-level failures are local: the failed node is
// recorded in NodeErrors, its downstream nodes are pruned, and the run
// continues elsewhere, ending with status "partial" or "error". Cancellation
// via Abort or context yields status "cancelled".
func (e *Executor) Execute(ctx context.Context, flow *models.Flow, onNodeComplete NodeCallback) (*models.FlowExecutionResult, error) {
	e.aborted.Store(false)

	for _, node := range flow.Nodes {
		node.Status = models.NodeStatusIdle
	}

	if err := e.validateFlow(flow); err != nil {
		return nil, err
	}

	handlers, err := e.buildHandlers(flow)
	if err != nil {
		return nil, err
	}

	state := models.NewExecutionContext(uuid.New().String(), flow.ID)

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "flow.execute",
			attribute.String(otelhelper.FlowIDKey, flow.ID),
			attribute.String(otelhelper.FlowNameKey, flow.Name),
			attribute.String(otelhelper.ExecutionIDKey, state.ID),
		)
		defer span.End()
	}

	e.logger.Info("Starting flow execution",
		"flow_id", flow.ID, "execution_id", state.ID, "node_count", len(flow.Nodes))

	e.publish(ctx, events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, flow.ID),
		ExecutionID: state.ID,
		NodeCount:   len(flow.Nodes),
	})

	r := &run{
		executor:       e,
		flow:           flow,
		handlers:       handlers,
		state:          state,
		settled:        make(map[string]disposition),
		activated:      make(map[string]map[string]bool),
		bodies:         loopBodies(flow, handlers),
		onNodeComplete: onNodeComplete,
	}

	runErr := r.executeScope(ctx, nil)
	cancelled := errors.Is(runErr, errCancelled)

	result := &models.FlowExecutionResult{
		ExecutionID: state.ID,
		FlowID:      flow.ID,
		Status:      finalStatus(flow, state, cancelled),
		NodeResults: maps.Clone(state.NodeResults),
		NodeErrors:  maps.Clone(state.NodeErrors),
		Duration:    time.Since(state.StartedAt),
		CompletedAt: time.Now().UTC(),
	}

	e.logger.Info("Flow execution finished",
		"flow_id", flow.ID, "execution_id", state.ID,
		"status", result.Status, "duration", result.Duration, "errors", len(result.NodeErrors))

	if cancelled {
		e.publish(ctx, events.ExecutionCancelled{
			BaseEvent:   events.NewBaseEvent(events.ExecutionCancelledEvent, flow.ID),
			ExecutionID: state.ID,
		})
	} else {
		e.publish(ctx, events.ExecutionFinished{
			BaseEvent:   events.NewBaseEvent(events.ExecutionFinishedEvent, flow.ID),
			ExecutionID: state.ID,
			Status:      result.Status,
			Duration:    result.Duration,
			ErrorCount:  len(result.NodeErrors),
		})
	}

	return result, nil
}

func (e *Executor) validateFlow(flow *models.Flow) error {
	return ValidateGraph(flow)
}

// ValidateGraph checks the run preconditions without executing anything:
// structural validity, presence of input and output nodes, and acyclicity.
func ValidateGraph(flow *models.Flow) error {
	if err := flow.Validate(); err != nil {
		return err
	}

	if flow.CountByType(models.NodeTypeInput) == 0 {
		return ErrMissingInputNode
	}

	if flow.CountByType(models.NodeTypeOutput) == 0 {
		return ErrMissingOutputNode
	}

	return detectCycle(flow)
}

func (e *Executor) buildHandlers(flow *models.Flow) (map[string]protocol.Node, error) {
	handlers := make(map[string]protocol.Node, len(flow.Nodes))

	for _, node := range flow.Nodes {
		handler, err := e.registry.Create(node, e.caps)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.ID, err)
		}

		handlers[node.ID] = handler
	}

	return handlers, nil
}

func (e *Executor) publish(ctx context.Context, event events.Event) {
	if e.bus == nil {
		return
	}

	if err := e.bus.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish execution event", "event_type", event.GetType(), "error", err)
	}
}

// detectCycle runs Kahn's algorithm over the whole graph; any node left with
// a positive in-degree sits on a cycle.
func detectCycle(flow *models.Flow) error {
	indegree := make(map[string]int, len(flow.Nodes))
	adjacency := make(map[string][]string, len(flow.Nodes))

	for _, node := range flow.Nodes {
		indegree[node.ID] = 0
	}

	for _, edge := range flow.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		indegree[edge.Target]++
	}

	queue := make([]string, 0, len(flow.Nodes))

	for _, node := range flow.Nodes {
		if indegree[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	visited := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++

		for _, target := range adjacency[id] {
			indegree[target]--

			if indegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if visited != len(flow.Nodes) {
		return ErrCyclicFlow
	}

	return nil
}

// loopBodies computes, for every loop node, the set of nodes reachable from
// its "each" handle. Those nodes are excluded from the enclosing scope's
// scheduling and re-run once per iteration.
func loopBodies(flow *models.Flow, handlers map[string]protocol.Node) map[string]map[string]bool {
	bodies := make(map[string]map[string]bool)

	for _, node := range flow.Nodes {
		if _, ok := handlers[node.ID].(protocol.LoopController); !ok {
			continue
		}

		body := make(map[string]bool)
		queue := make([]string, 0)

		for _, edge := range flow.Edges {
			if edge.Source == node.ID && edge.Handle() == models.HandleEach {
				queue = append(queue, edge.Target)
			}
		}

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			if body[id] || id == node.ID {
				continue
			}

			body[id] = true

			for _, edge := range flow.Edges {
				if edge.Source == id {
					queue = append(queue, edge.Target)
				}
			}
		}

		bodies[node.ID] = body
	}

	return bodies
}

func finalStatus(flow *models.Flow, state *models.ExecutionContext, cancelled bool) models.ExecutionStatus {
	if cancelled {
		return models.ExecutionStatusCancelled
	}

	if len(state.NodeErrors) == 0 {
		return models.ExecutionStatusSuccess
	}

	for _, node := range flow.Nodes {
		if node.Status == models.NodeStatusSuccess {
			return models.ExecutionStatusPartial
		}
	}

	return models.ExecutionStatusError
}

// disposition records how a node settled within the current scope pass.
type disposition int

const (
	dispositionCompleted disposition = iota + 1
	dispositionErrored
	dispositionPruned
)

// run holds the mutable scheduling state of one execution.
type run struct {
	executor *Executor
	flow     *models.Flow
	handlers map[string]protocol.Node
	state    *models.ExecutionContext

	// settled records per-node dispositions; activated records which output
	// handles a completed node emitted, which decides edge liveness.
	settled   map[string]disposition
	activated map[string]map[string]bool

	// bodies maps each loop node to its "each" subgraph membership.
	bodies map[string]map[string]bool

	onNodeComplete NodeCallback
}

// executeScope runs every schedulable node of the scope to a settled state.
// A nil scope means the top level: every node outside all loop bodies.
// Scheduling is sequential and scans nodes in definition order, which keeps
// runs deterministic for a given flow.
func (r *run) executeScope(ctx context.Context, scope map[string]bool) error {
	for {
		if r.cancelled(ctx) {
			return errCancelled
		}

		node := r.nextReady(scope)
		if node == nil {
			return nil
		}

		if err := r.step(ctx, node); err != nil {
			return err
		}
	}
}

func (r *run) cancelled(ctx context.Context) bool {
	return r.executor.aborted.Load() || ctx.Err() != nil
}

// nextReady returns the first unsettled in-scope node whose predecessors have
// all settled, or nil when the scope is drained.
func (r *run) nextReady(scope map[string]bool) *models.FlowNode {
	for _, node := range r.flow.Nodes {
		if !r.inScope(node.ID, scope) {
			continue
		}

		if _, done := r.settled[node.ID]; done {
			continue
		}

		if r.blocked(node.ID) {
			continue
		}

		return node
	}

	return nil
}

// inScope reports whether a node is schedulable in the given scope. A node
// inside a loop body is never scheduled directly by the scope containing that
// loop; the loop drive runs it.
func (r *run) inScope(id string, scope map[string]bool) bool {
	if scope != nil && !scope[id] {
		return false
	}

	for loopID, body := range r.bodies {
		if !body[id] {
			continue
		}

		if scope == nil || scope[loopID] {
			return false
		}
	}

	return true
}

func (r *run) blocked(id string) bool {
	for _, edge := range r.flow.Edges {
		if edge.Target != id {
			continue
		}

		if _, done := r.settled[edge.Source]; !done {
			return true
		}
	}

	return false
}

// live reports whether an edge carries data: its source completed and emitted
// the handle the edge listens on.
func (r *run) live(edge *models.FlowEdge) bool {
	if r.settled[edge.Source] != dispositionCompleted {
		return false
	}

	return r.activated[edge.Source][edge.Handle()]
}

// collectInputs gathers live predecessor outputs in edge definition order.
func (r *run) collectInputs(id string) models.NodeInput {
	input := models.NodeInput{}

	for _, edge := range r.flow.Edges {
		if edge.Target != id || !r.live(edge) {
			continue
		}

		value := r.state.NodeResults[edge.Source]

		if len(input.Values) == 0 {
			input.Primary = value
		}

		input.Values = append(input.Values, value)
	}

	return input
}

// step settles one node: prunes it when no incoming edge is live, drives the
// iteration subgraph for loops, and dispatches to the handler otherwise.
func (r *run) step(ctx context.Context, node *models.FlowNode) error {
	incoming := 0

	live := 0

	for _, edge := range r.flow.Edges {
		if edge.Target != node.ID {
			continue
		}

		incoming++

		if r.live(edge) {
			live++
		}
	}

	if incoming > 0 && live == 0 {
		r.settled[node.ID] = dispositionPruned

		r.executor.logger.Debug("Pruned node", "node_id", node.ID, "execution_id", r.state.ID)

		return nil
	}

	input := r.collectInputs(node.ID)

	if ctrl, ok := r.handlers[node.ID].(protocol.LoopController); ok {
		return r.runLoop(ctx, node, ctrl, input)
	}

	r.executeNode(ctx, node, input)

	return nil
}

// executeNode dispatches a single non-loop node and records its outcome.
func (r *run) executeNode(ctx context.Context, node *models.FlowNode, input models.NodeInput) {
	node.Status = models.NodeStatusRunning

	r.executor.logger.Debug("Executing node",
		"node_id", node.ID, "node_type", node.Type, "execution_id", r.state.ID)

	var span trace.Span

	if r.executor.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, r.executor.tracer, "node.execute",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
			attribute.String(otelhelper.ExecutionIDKey, r.state.ID),
		)
		defer span.End()
	}

	results, err := r.handlers[node.ID].Execute(ctx, r.state, input)
	if err != nil {
		node.Status = models.NodeStatusError
		r.state.NodeErrors[node.ID] = err.Error()
		r.settled[node.ID] = dispositionErrored

		if span != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.NodeIDKey, node.ID),
				attribute.String(otelhelper.ExecutionIDKey, r.state.ID),
			)
		}

		r.executor.logger.Warn("Node failed",
			"node_id", node.ID, "node_type", node.Type, "execution_id", r.state.ID, "error", err)

		r.notify(ctx, node.ID, models.NodeStatusError, nil, err)

		return
	}

	handles := make(map[string]bool, len(results))

	var data any

	for handle, result := range results {
		handles[handle] = true
		data = result.Data
	}

	if result, ok := results[models.HandleMain]; ok {
		data = result.Data
	}

	node.Status = models.NodeStatusSuccess
	r.state.NodeResults[node.ID] = data
	r.settled[node.ID] = dispositionCompleted
	r.activated[node.ID] = handles

	delete(r.state.NodeErrors, node.ID)

	r.notify(ctx, node.ID, models.NodeStatusSuccess, data, nil)
}

// runLoop drives a loop node: for each planned iteration it publishes the
// iteration on the loop's "each" handle, resets and re-runs the body
// subgraph, and finally settles the loop on "done" with the per-iteration
// terminal values. Output nodes inside the body accumulate one entry per
// iteration instead of keeping only the last.
func (r *run) runLoop(ctx context.Context, node *models.FlowNode, ctrl protocol.LoopController, input models.NodeInput) error {
	node.Status = models.NodeStatusRunning

	values, err := ctrl.Iterations(r.state, input)
	if err != nil {
		r.failLoop(ctx, node, err)

		return nil
	}

	until := values == nil
	planned := len(values)

	if until || planned > ctrl.MaxIterations() {
		planned = ctrl.MaxIterations()
	}

	body := r.bodies[node.ID]
	savedLoop := r.state.Loop
	terminals := make([]any, 0, planned)
	accumulated := make(map[string][]any)

	for i := 0; i < planned; i++ {
		if r.cancelled(ctx) {
			r.state.Loop = savedLoop

			return errCancelled
		}

		value := any(i)
		if !until {
			value = values[i]
		}

		// Body entry nodes see the current element as their input; iteration
		// metadata is reachable through the loop scope.
		r.state.Loop = &models.LoopIteration{Iteration: i, Value: value}
		r.state.NodeResults[node.ID] = value
		r.settled[node.ID] = dispositionCompleted
		r.activated[node.ID] = map[string]bool{models.HandleEach: true}

		for id := range body {
			delete(r.settled, id)
			delete(r.activated, id)

			if member, ok := r.flow.NodeByID(id); ok {
				member.Status = models.NodeStatusIdle
			}
		}

		if r.executor.tracer != nil {
			_, span := otelhelper.StartSpan(ctx, r.executor.tracer, "loop.iteration",
				attribute.String(otelhelper.NodeIDKey, node.ID),
				attribute.Int(otelhelper.IterationKey, i),
			)
			span.End()
		}

		if err := r.executeScope(ctx, body); err != nil {
			r.state.Loop = savedLoop

			return err
		}

		terminals = append(terminals, r.iterationTerminal(body, value))

		for id := range body {
			if r.settled[id] != dispositionCompleted {
				continue
			}

			if _, ok := r.handlers[id].(protocol.OutputAccumulator); ok {
				accumulated[id] = append(accumulated[id], r.state.NodeResults[id])
			}
		}

		if until {
			stop, err := ctrl.ShouldBreak(r.state)
			if err != nil {
				r.state.Loop = savedLoop
				r.failLoop(ctx, node, err)

				return nil
			}

			if stop {
				break
			}
		}
	}

	r.state.Loop = savedLoop

	for id, entries := range accumulated {
		if accumulator, ok := r.handlers[id].(protocol.OutputAccumulator); ok {
			r.state.NodeResults[id] = accumulator.Accumulate(entries)
		}
	}

	node.Status = models.NodeStatusSuccess
	r.state.NodeResults[node.ID] = terminals
	r.settled[node.ID] = dispositionCompleted
	r.activated[node.ID] = map[string]bool{models.HandleDone: true}

	delete(r.state.NodeErrors, node.ID)

	r.notify(ctx, node.ID, models.NodeStatusSuccess, terminals, nil)

	return nil
}

func (r *run) failLoop(ctx context.Context, node *models.FlowNode, err error) {
	node.Status = models.NodeStatusError
	r.state.NodeErrors[node.ID] = err.Error()
	r.settled[node.ID] = dispositionErrored

	r.executor.logger.Warn("Loop failed",
		"node_id", node.ID, "execution_id", r.state.ID, "error", err)

	r.notify(ctx, node.ID, models.NodeStatusError, nil, err)
}

// iterationTerminal picks the iteration's resulting value: the output of the
// first completed body sink, falling back to the iteration value for empty or
// fully pruned bodies.
func (r *run) iterationTerminal(body map[string]bool, fallback any) any {
	for _, node := range r.flow.Nodes {
		if !body[node.ID] || r.settled[node.ID] != dispositionCompleted {
			continue
		}

		sink := true

		for _, edge := range r.flow.Edges {
			if edge.Source == node.ID && body[edge.Target] {
				sink = false

				break
			}
		}

		if sink {
			return r.state.NodeResults[node.ID]
		}
	}

	return fallback
}

func (r *run) notify(ctx context.Context, nodeID string, status models.NodeStatus, data any, err error) {
	payload := data
	if err != nil {
		payload = err.Error()
	}

	if r.onNodeComplete != nil {
		r.onNodeComplete(nodeID, status, payload)
	}

	event := events.NodeCompleted{
		BaseEvent:   events.NewBaseEvent(events.NodeCompletedEvent, r.flow.ID),
		ExecutionID: r.state.ID,
		NodeID:      nodeID,
		Status:      status,
	}

	if err != nil {
		event.Error = err.Error()
	}

	r.executor.publish(ctx, event)
}
