package engine

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mastering/dsp/effects/spatial"
	"github.com/cwbudde/algo-mastering/dsp/eq"
	"github.com/cwbudde/algo-mastering/dsp/param"
	"github.com/cwbudde/algo-mastering/host"
	"github.com/cwbudde/algo-mastering/measure/meter"
	"github.com/cwbudde/algo-mastering/media"
	"github.com/cwbudde/algo-vecmath"
)

// NodeID names a stage of the signal graph.
type NodeID int

const (
	NodeSource NodeID = iota
	NodeSplitter
	NodeLeftEQ
	NodeRightEQ
	NodeMerger
	NodeFade
	NodeMidSide
	NodeLimiter
	NodeMeter
	NodeOutput

	numNodes
)

var nodeNames = [numNodes]string{
	NodeSource:   "source",
	NodeSplitter: "splitter",
	NodeLeftEQ:   "left-eq",
	NodeRightEQ:  "right-eq",
	NodeMerger:   "merger",
	NodeFade:     "fade",
	NodeMidSide:  "mid-side",
	NodeLimiter:  "limiter",
	NodeMeter:    "meter",
	NodeOutput:   "output",
}

func (id NodeID) String() string {
	if id < 0 || id >= numNodes {
		return fmt.Sprintf("node(%d)", int(id))
	}
	return nodeNames[id]
}

type connection struct {
	From, To NodeID
}

// connections is the fixed topology.
var connections = []connection{
	{NodeSource, NodeSplitter},
	{NodeSplitter, NodeLeftEQ},
	{NodeSplitter, NodeRightEQ},
	{NodeLeftEQ, NodeMerger},
	{NodeRightEQ, NodeMerger},
	{NodeMerger, NodeFade},
	{NodeFade, NodeMidSide},
	{NodeMidSide, NodeLimiter},
	{NodeLimiter, NodeOutput},
	{NodeLimiter, NodeMeter},
}

// sortNodes orders the nodes of conns topologically (Kahn's algorithm).
// Ties resolve in NodeID order so the result is deterministic.
func sortNodes(conns []connection) ([]NodeID, error) {
	var (
		indegree [numNodes]int
		outgoing [numNodes][]NodeID
	)
	for _, c := range conns {
		if c.From < 0 || c.From >= numNodes || c.To < 0 || c.To >= numNodes {
			return nil, fmt.Errorf("invalid graph connection %v -> %v", c.From, c.To)
		}
		if c.From == c.To {
			return nil, fmt.Errorf("invalid graph connection: %v feeds itself", c.From)
		}
		outgoing[c.From] = append(outgoing[c.From], c.To)
		indegree[c.To]++
	}

	queue := make([]NodeID, 0, numNodes)
	for id := range NodeID(numNodes) {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]NodeID, 0, numNodes)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, to := range outgoing[id] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) != int(numNodes) {
		return nil, errors.New("invalid graph: contains cycle")
	}
	return order, nil
}

// graph is the arena of stages. It is built once and only its parameters
// change afterwards. renderQuantum runs on the host's render goroutine.
type graph struct {
	ctx     host.Context
	clock   *param.Clock
	source  *media.Handle
	order   []NodeID
	quantum int

	left    *eq.Chain
	right   *eq.Chain
	fade    *param.Param
	matrix  *spatial.MidSide
	limiter *dynamics.Limiter
	meter   *meter.Sampler

	leftBuf  []float64
	rightBuf []float64
	fadeBuf  []float64
}

func newGraph(ctx host.Context, source *media.Handle, cfg config) (*graph, error) {
	order, err := sortNodes(connections)
	if err != nil {
		return nil, err
	}

	clock := param.NewClock(float64(ctx.SampleRate()))

	left, err := eq.NewChain(clock)
	if err != nil {
		return nil, fmt.Errorf("left eq: %w", err)
	}
	right, err := eq.NewChain(clock)
	if err != nil {
		return nil, fmt.Errorf("right eq: %w", err)
	}
	matrix, err := spatial.NewMidSide(clock)
	if err != nil {
		return nil, fmt.Errorf("mid/side: %w", err)
	}
	limiter, err := dynamics.NewLimiter(clock)
	if err != nil {
		return nil, fmt.Errorf("limiter: %w", err)
	}
	sampler, err := meter.NewSampler(meter.WithFFTSize(cfg.meterWindow))
	if err != nil {
		return nil, fmt.Errorf("meter: %w", err)
	}

	q := cfg.BlockSize
	return &graph{
		ctx:      ctx,
		clock:    clock,
		source:   source,
		order:    order,
		quantum:  q,
		left:     left,
		right:    right,
		fade:     param.New(clock, 1),
		matrix:   matrix,
		limiter:  limiter,
		meter:    sampler,
		leftBuf:  make([]float64, q),
		rightBuf: make([]float64, q),
		fadeBuf:  make([]float64, q),
	}, nil
}

// render fills dst (interleaved stereo) one quantum at a time.
func (g *graph) render(dst []float32) {
	frames := len(dst) / 2
	for off := 0; off < frames; off += g.quantum {
		n := min(g.quantum, frames-off)
		g.renderQuantum(dst[2*off : 2*(off+n)])
	}
	clear(dst[2*frames:])
}

func (g *graph) renderQuantum(io []float32) {
	n := len(io) / 2
	l := g.leftBuf[:n]
	r := g.rightBuf[:n]

	for _, id := range g.order {
		switch id {
		case NodeSource:
			g.source.Read(io)
		case NodeSplitter:
			core.Deinterleave(l, r, io)
		case NodeLeftEQ:
			g.left.Process(l)
		case NodeRightEQ:
			g.right.Process(r)
		case NodeMerger:
			// channels stay planar until the output stage
		case NodeFade:
			fb := g.fadeBuf[:n]
			g.fade.Fill(fb)
			vecmath.MulBlockInPlace(l, fb)
			vecmath.MulBlockInPlace(r, fb)
		case NodeMidSide:
			g.matrix.Process(l, r)
		case NodeLimiter:
			g.limiter.Process(l, r)
		case NodeMeter:
			g.meter.Write(l, r)
		case NodeOutput:
			core.Interleave(io, l, r)
		}
	}

	g.clock.Advance(n)
}
