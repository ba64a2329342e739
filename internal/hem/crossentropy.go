package hem

import "math"

// CrossEntropyParams are the hyperparameters of the entropy method.
type CrossEntropyParams struct {
	ThresholdCrossEntropy *float64 `hp:"threshold_cross_entropy"`
}

// CrossEntropy flags a classification result as hard when its normalized
// entropy reaches Threshold.
type CrossEntropy struct {
	Threshold float64
}

// NewCrossEntropy builds a CrossEntropy miner. The threshold defaults to 0.5.
func NewCrossEntropy(p CrossEntropyParams) (*CrossEntropy, error) {
	t, err := threshold("threshold_cross_entropy", p.ThresholdCrossEntropy, 0.5)
	if err != nil {
		return nil, err
	}
	return &CrossEntropy{Threshold: t}, nil
}

// IsHard takes the class probabilities of one result. Entropy is divided by
// log(n) so it lies in [0, 1]. Fewer than two classes, or a value outside
// [0, 1], is not mined.
func (m *CrossEntropy) IsHard(probs []float64) bool {
	if len(probs) < 2 {
		return false
	}
	var entropy float64
	for _, p := range probs {
		if !isProbability(p) {
			return false
		}
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	return entropy/math.Log(float64(len(probs))) >= m.Threshold
}
