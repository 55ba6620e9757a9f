package detector

import (
	"math"

	"LRRBrain/internal/domain/models"
)

// LorentzianClassifier is a k-nearest-neighbor direction classifier using a
// Lorentzian distance over normalized indicator features. Neighbors are
// labeled by their own realized forward return, and any neighbor whose
// forward window reaches the query bar is skipped, so the vote never sees
// future data.
type LorentzianClassifier struct {
	k           int
	maxHistory  int
	stride      int
	forwardBars int
}

// ClassifierOption configures a LorentzianClassifier.
type ClassifierOption func(*LorentzianClassifier)

func WithNeighbors(k int) ClassifierOption {
	return func(c *LorentzianClassifier) { c.k = k }
}

func WithHistoryDepth(n int) ClassifierOption {
	return func(c *LorentzianClassifier) { c.maxHistory = n }
}

// NewLorentzianClassifier builds a classifier with production defaults.
func NewLorentzianClassifier(opts ...ClassifierOption) *LorentzianClassifier {
	c := &LorentzianClassifier{
		k:           8,
		maxHistory:  200,
		stride:      4,
		forwardBars: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// minFeatureBars is the history needed before feature vectors stabilize.
const minFeatureBars = 25

// Classify votes the k nearest historical bars on the direction of the
// closed signal bar. Ties and empty candidate sets yield NEUTRAL with zero
// confidence.
func (c *LorentzianClassifier) Classify(bars []models.Bar) models.Classification {
	neutral := models.Classification{Direction: models.DirNeutral, Confidence: 0}
	query := len(bars) - 2
	if query < minFeatureBars+1 {
		return neutral
	}
	qf := featureVector(bars, query)

	earliest := query - c.maxHistory
	if earliest < minFeatureBars {
		earliest = minFeatureBars
	}

	type neighbor struct {
		dist  float64
		label int
	}
	var neighbors []neighbor
	for i := earliest; i < query; i += c.stride {
		future := i + c.forwardBars
		if future >= query {
			break
		}
		label := 0
		if d := bars[future].Close - bars[i].Close; d > 0 {
			label = 1
		} else if d < 0 {
			label = -1
		}
		f := featureVector(bars, i)
		dist := 0.0
		for j := range qf {
			dist += math.Log1p(math.Abs(qf[j] - f[j]))
		}
		neighbors = append(neighbors, neighbor{dist: dist, label: label})
	}
	if len(neighbors) == 0 {
		return neutral
	}

	// Partial selection of the k smallest distances.
	if len(neighbors) > c.k {
		for i := 0; i < c.k; i++ {
			min := i
			for j := i + 1; j < len(neighbors); j++ {
				if neighbors[j].dist < neighbors[min].dist {
					min = j
				}
			}
			neighbors[i], neighbors[min] = neighbors[min], neighbors[i]
		}
		neighbors = neighbors[:c.k]
	}

	var up, down int
	for _, n := range neighbors {
		switch n.label {
		case 1:
			up++
		case -1:
			down++
		}
	}
	total := len(neighbors)
	switch {
	case up > down:
		return models.Classification{Direction: models.DirBuy, Confidence: float64(up) / float64(total)}
	case down > up:
		return models.Classification{Direction: models.DirSell, Confidence: float64(down) / float64(total)}
	default:
		return neutral
	}
}

// featureVector computes the normalized feature set for the bar at idx using
// only bars up to and including idx.
func featureVector(bars []models.Bar, idx int) [4]float64 {
	window := bars[:idx+1]
	closes := Closes(window)
	return [4]float64{
		RSI(closes, 14) / 100,
		RSI(closes, 9) / 100,
		NormalizedCCI(window, 20),
		ADXProxy(window, 14),
	}
}
