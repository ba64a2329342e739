package hem

// IBTParams are the hyperparameters of the image-box threshold method.
type IBTParams struct {
	ThresholdImg *float64 `hp:"threshold_img"`
	ThresholdBox *float64 `hp:"threshold_box"`
}

// IBT flags an image as hard when enough of its detections are
// low-confidence: a box is low-confidence below ThresholdBox, and the image
// is hard once the share of such boxes reaches 1 - ThresholdImg.
type IBT struct {
	ThresholdImg float64
	ThresholdBox float64
}

// NewIBT builds an IBT miner. Both thresholds default to 0.5.
func NewIBT(p IBTParams) (*IBT, error) {
	img, err := threshold("threshold_img", p.ThresholdImg, 0.5)
	if err != nil {
		return nil, err
	}
	box, err := threshold("threshold_box", p.ThresholdBox, 0.5)
	if err != nil {
		return nil, err
	}
	return &IBT{ThresholdImg: img, ThresholdBox: box}, nil
}

// IsHard takes the confidence score of every detected box. An image without
// detections, or with a score outside [0, 1], is not mined.
func (m *IBT) IsHard(scores []float64) bool {
	if len(scores) == 0 {
		return false
	}
	low := 0
	for _, s := range scores {
		if !isProbability(s) {
			return false
		}
		if s < m.ThresholdBox {
			low++
		}
	}
	return float64(low)/float64(len(scores)) >= 1-m.ThresholdImg
}
