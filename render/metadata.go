package render

import (
	"encoding/json"

	"github.com/rawforge/devcore/rawio"
)

// metadataJSON is the wire shape of get_metadata_json's result, matching
// the original engine's extract_metadata_json field names exactly:
// make/model/lens/iso/exposureTime/fNumber/focalLength/dateTimeOriginal.
// Fields the decoder couldn't read render as "", never as a missing key.
type metadataJSON struct {
	Make             string `json:"make"`
	Model            string `json:"model"`
	Lens             string `json:"lens"`
	ISO              string `json:"iso"`
	ExposureTime     string `json:"exposureTime"`
	FNumber          string `json:"fNumber"`
	FocalLength      string `json:"focalLength"`
	DateTimeOriginal string `json:"dateTimeOriginal"`
}

// GetMetadataJSON returns the session's RAW file metadata as the host's
// Metadata JSON contract.
func GetMetadataJSON(handle int64) (string, error) {
	s, err := getSession(handle)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	raw := s.raw
	s.mu.Unlock()

	var dec rawio.SoftwareDecoder
	meta, err := dec.Metadata(raw)
	if err != nil {
		return "", err
	}

	out := metadataJSON{
		Make:             meta.Make,
		Model:            meta.Model,
		Lens:             meta.Lens,
		ISO:              meta.ISO,
		ExposureTime:     meta.ExposureTime,
		FNumber:          meta.FNumber,
		FocalLength:      meta.FocalLength,
		DateTimeOriginal: meta.DateTimeOriginal,
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
