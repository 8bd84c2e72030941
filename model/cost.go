package model

import "sync"

// Pricing holds per-million-token rates for a model family, in USD.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Rates contains current published pricing for Claude model families.
var Rates = map[Name]Pricing{
	Opus:   {InputPerMillion: 15.0, OutputPerMillion: 75.0},
	Sonnet: {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	Haiku:  {InputPerMillion: 0.25, OutputPerMillion: 1.25},
}

// EstimateCost returns the estimated USD cost of a call given token
// counts. The model may be a short name or a full identifier; families
// outside the rate table estimate as zero rather than guessing.
func EstimateCost(modelName string, inputTokens, outputTokens int) float64 {
	rates, ok := Rates[Normalize(modelName)]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000*rates.InputPerMillion +
		float64(outputTokens)/1_000_000*rates.OutputPerMillion
}

// Usage tracks token usage for a model.
type Usage struct {
	InputTokens  int
	OutputTokens int
	Requests     int
}

// Add adds the given usage to this usage.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Requests += other.Requests
}

// CostTracker accumulates token usage and estimated costs across models.
// Safe for concurrent use.
type CostTracker struct {
	mu     sync.RWMutex
	totals map[Name]Usage
}

// NewCostTracker creates a new cost tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{totals: make(map[Name]Usage)}
}

// Record adds a usage record for the given model.
func (t *CostTracker) Record(modelName string, input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := Normalize(modelName)
	u := t.totals[name]
	u.InputTokens += input
	u.OutputTokens += output
	u.Requests++
	t.totals[name] = u
}

// Usage returns the accumulated usage for a model family.
func (t *CostTracker) Usage(modelName string) Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals[Normalize(modelName)]
}

// TotalUsage returns aggregated usage across all models.
func (t *CostTracker) TotalUsage() Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total Usage
	for _, u := range t.totals {
		total.Add(u)
	}
	return total
}

// EstimatedCost calculates the estimated cost from current rates.
func (t *CostTracker) EstimatedCost() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total float64
	for name, usage := range t.totals {
		rates, ok := Rates[name]
		if !ok {
			continue
		}
		total += float64(usage.InputTokens)/1_000_000*rates.InputPerMillion +
			float64(usage.OutputTokens)/1_000_000*rates.OutputPerMillion
	}
	return total
}

// Reset clears all tracked usage.
func (t *CostTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals = make(map[Name]Usage)
}
