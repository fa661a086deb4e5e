package ijgp

// Logger is the minimal logging surface the engine needs; satisfied by
// internal/obslog.Logger (a thin zerolog wrapper). A nil Logger disables
// diagnostics.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
}

// Engine runs Iterative Join-Graph Propagation over a JoinGraph. The
// package's concurrency model takes the documented asynchronous pass
// (matching the original C++ source, per the package's resolved open
// question): within one RunOnce pass, a node immediately uses whatever
// messages are already current when it is visited, including ones updated
// earlier in the very same pass by earlier nodes in the frozen ordering.
type Engine struct {
	Logger Logger
}

// NewEngine returns an Engine with diagnostics disabled.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) logDebug(msg string, fields map[string]interface{}) {
	if e.Logger != nil {
		e.Logger.Debug(msg, fields)
	}
}

// RunOnce performs one asynchronous IJGP pass: visit every node in the
// frozen ordering, compute every outgoing message, and deliver it
// immediately to its target.
func (e *Engine) RunOnce(jg *JoinGraph, evidence Assignment) {
	for _, idx := range jg.Ordering {
		n := jg.Nodes[idx]
		for _, edge := range n.Edges {
			msg := computeMessage(jg, idx, edge, evidence)
			jg.Nodes[edge.Target].SetMessage(idx, msg)
		}
	}
}

// graphKLDivergence computes the mean-over-nodes of mean-over-incoming-
// message-pairs KL divergence between each node's current and previous
// message generations.
func graphKLDivergence(jg *JoinGraph) float64 {
	if len(jg.Nodes) == 0 {
		return 0
	}
	total := 0.0
	for _, n := range jg.Nodes {
		if len(n.current) == 0 {
			continue
		}
		nodeSum := 0.0
		count := 0
		for sender, cur := range n.current {
			if cur == nil {
				continue
			}
			nodeSum += cur.KLDivergence(n.previous[sender])
			count++
		}
		if count > 0 {
			total += nodeSum / float64(count)
		}
	}
	return total / float64(len(jg.Nodes))
}

// Propagate iterates RunOnce until graph-wide KL divergence drops below
// MinKLDivergence or maxIters passes have run (maxIters<=0 uses
// MaxPropagationIterations). Returns the number of passes run and the final
// KL divergence value.
func (e *Engine) Propagate(jg *JoinGraph, evidence Assignment, maxIters int) (iters int, kl float64) {
	if maxIters <= 0 {
		maxIters = MaxPropagationIterations
	}
	for iters = 1; iters <= maxIters; iters++ {
		e.RunOnce(jg, evidence)
		kl = graphKLDivergence(jg)
		e.logDebug("ijgp pass complete", map[string]interface{}{"iteration": iters, "kl_divergence": kl})
		if kl < MinKLDivergence {
			break
		}
	}
	if iters > maxIters {
		iters = maxIters
	}
	return iters, kl
}

// ConditionalDistribution delegates to JoinGraph.ConditionalDistribution;
// exposed on Engine for symmetry with RunOnce/Propagate.
func (e *Engine) ConditionalDistribution(jg *JoinGraph, v VarID, evidence Assignment) map[int]float64 {
	return jg.ConditionalDistribution(v, evidence)
}
