package payload

import "encoding/json"

// Parse decodes an adjustments JSON document into a Payload. Per
// spec.md 4.1, a root document that fails to parse yields Default(),
// never an error: malformed input degrades to a no-op render rather
// than aborting it.
func Parse(data []byte) Payload {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return Default()
	}
	return w.toPayload()
}

// MasksRawJSON extracts the raw bytes of data's top-level "masks" field,
// for use as a cache key: a caller that only needs to detect whether the
// mask stack changed since a prior render can compare this instead of
// the full adjustments payload. Malformed input or a document with no
// masks field yields nil.
func MasksRawJSON(data []byte) []byte {
	var probe struct {
		Masks json.RawMessage `json:"masks"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil
	}
	return probe.Masks
}

func (w wirePayload) toPayload() Payload {
	adj := w.wireAdjustments.toValues()
	adj.ColorGrading = w.ColorGrading.toValues()
	adj.HSL = w.HSL.toValues()

	var crop *Rect
	if w.Crop != nil {
		crop = w.Crop.toRect()
	}

	var roi *Rect
	if w.Preview.ROI != nil {
		roi = w.Preview.ROI.toRect()
	}

	return Payload{
		Adjustments: adj,
		Curves:      w.Curves.toValues(),
		Transform: Transform{
			OrientationSteps: ((w.OrientationSteps % 4) + 4) % 4,
			HorizontalFlip:   w.FlipHorizontal,
			VerticalFlip:     w.FlipVertical,
			RotationDegrees:  w.RotationDegrees,
			Crop:             crop,
		},
		Preview: Preview{
			UseZoom:      w.Preview.UseZoom,
			ROI:          roi,
			MaxDimension: w.Preview.MaxDimension,
		},
		Masks: parseMaskNodes(w.Masks),
	}
}
