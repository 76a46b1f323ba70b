// Package limits reads and writes the JSON limit files the rescaling and
// conversion tools exchange. Readers fail on missing keys so a bad input
// file never produces partial output downstream.
package limits

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SourceLimit is a published dijet exclusion: the quark coupling excluded
// at each mediator mass. Mdm is optional here because the dijet flow takes
// the source dark-matter masses from the model info file instead.
type SourceLimit struct {
	Mmed    []float64 `json:"mmed"`
	Mdm     []float64 `json:"mdm,omitempty"`
	GqLimit []float64 `json:"gq_limit"`
}

// Series holds one or more parallel numeric tracks. A flat JSON array
// decodes to a single track and an array of arrays decodes to one track
// per contour. A single track marshals back to a flat array, so the common
// one-contour case round-trips flat.
type Series [][]float64

func (s *Series) UnmarshalJSON(data []byte) error {
	var nested [][]float64
	if err := json.Unmarshal(data, &nested); err == nil {
		*s = nested
		return nil
	}
	var flat []float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return errors.New("expected a numeric array or an array of numeric arrays")
	}
	*s = Series{flat}
	return nil
}

func (s Series) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([][]float64(s))
}

// ConvertibleLimit is the input to the dark-photon conversion: mediator
// masses, dark-matter masses, and coupling limits, either as one contour
// (flat arrays) or several (arrays of arrays).
type ConvertibleLimit struct {
	Mmed    Series `json:"mmed"`
	Mdm     Series `json:"mdm"`
	GqLimit Series `json:"gq_limit"`
}

// SourceInfo describes the model behind a source limit: its couplings,
// coupling structure, and how its dark-matter mass relates to the mediator
// mass. The mdm entry is a scalar fraction of the mediator mass when
// MdmIsFraction is set and a mass array parallel to the limit otherwise.
type SourceInfo struct {
	Gdm           float64
	Gl            float64
	Coupling      string
	PDFSet        string
	EcmTev        float64
	MdmIsFraction bool

	mdmFraction float64
	mdmValues   []float64
}

// requireKeys parses a JSON object and verifies every listed key is
// present before any field is decoded.
func requireKeys(data []byte, path string, keys ...string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, key := range keys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%s is missing required key %q", path, key)
		}
	}
	return raw, nil
}

// ReadSourceLimit loads a flat source limit file. The mmed and gq_limit
// keys are required and must be parallel; mdm rides along when present.
func ReadSourceLimit(path string) (*SourceLimit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limit file: %w", err)
	}
	raw, err := requireKeys(data, path, "mmed", "gq_limit")
	if err != nil {
		return nil, err
	}

	var lim SourceLimit
	if err := json.Unmarshal(raw["mmed"], &lim.Mmed); err != nil {
		return nil, fmt.Errorf("%s: bad value for key %q: %w", path, "mmed", err)
	}
	if err := json.Unmarshal(raw["gq_limit"], &lim.GqLimit); err != nil {
		return nil, fmt.Errorf("%s: bad value for key %q: %w", path, "gq_limit", err)
	}
	if mdm, ok := raw["mdm"]; ok {
		if err := json.Unmarshal(mdm, &lim.Mdm); err != nil {
			return nil, fmt.Errorf("%s: bad value for key %q: %w", path, "mdm", err)
		}
	}

	if len(lim.Mmed) == 0 {
		return nil, fmt.Errorf("%s: no limit points found", path)
	}
	if len(lim.GqLimit) != len(lim.Mmed) {
		return nil, fmt.Errorf("%s: mmed and gq_limit lengths differ (%d vs %d)", path, len(lim.Mmed), len(lim.GqLimit))
	}
	if lim.Mdm != nil && len(lim.Mdm) != len(lim.Mmed) {
		return nil, fmt.Errorf("%s: mmed and mdm lengths differ (%d vs %d)", path, len(lim.Mmed), len(lim.Mdm))
	}
	return &lim, nil
}

// ReadConvertibleLimit loads a limit file for dark-photon conversion. All
// of mmed, mdm, and gq_limit are required, the three fields must carry the
// same number of contours, and the tracks of each contour must be parallel.
func ReadConvertibleLimit(path string) (*ConvertibleLimit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limit file: %w", err)
	}
	raw, err := requireKeys(data, path, "mmed", "mdm", "gq_limit")
	if err != nil {
		return nil, err
	}

	var lim ConvertibleLimit
	fields := []struct {
		key string
		dst *Series
	}{
		{"mmed", &lim.Mmed},
		{"mdm", &lim.Mdm},
		{"gq_limit", &lim.GqLimit},
	}
	for _, f := range fields {
		if err := json.Unmarshal(raw[f.key], f.dst); err != nil {
			return nil, fmt.Errorf("%s: bad value for key %q: %w", path, f.key, err)
		}
	}

	if len(lim.Mmed) == 0 {
		return nil, fmt.Errorf("%s: no limit points found", path)
	}
	if len(lim.Mdm) != len(lim.Mmed) || len(lim.GqLimit) != len(lim.Mmed) {
		return nil, fmt.Errorf("%s: mmed, mdm and gq_limit carry %d, %d and %d contours", path, len(lim.Mmed), len(lim.Mdm), len(lim.GqLimit))
	}
	for i := range lim.Mmed {
		if len(lim.Mdm[i]) != len(lim.Mmed[i]) || len(lim.GqLimit[i]) != len(lim.Mmed[i]) {
			return nil, fmt.Errorf("%s: contour %d has unequal track lengths", path, i)
		}
	}
	return &lim, nil
}

// ReadSourceInfo loads a model info file. Every field is required.
func ReadSourceInfo(path string) (*SourceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model info file: %w", err)
	}
	raw, err := requireKeys(data, path, "gdm", "gl", "coupling", "pdfset", "ecm_tev", "mdm_is_fraction", "mdm")
	if err != nil {
		return nil, err
	}

	var info SourceInfo
	fields := []struct {
		key string
		dst any
	}{
		{"gdm", &info.Gdm},
		{"gl", &info.Gl},
		{"coupling", &info.Coupling},
		{"pdfset", &info.PDFSet},
		{"ecm_tev", &info.EcmTev},
		{"mdm_is_fraction", &info.MdmIsFraction},
	}
	for _, f := range fields {
		if err := json.Unmarshal(raw[f.key], f.dst); err != nil {
			return nil, fmt.Errorf("%s: bad value for key %q: %w", path, f.key, err)
		}
	}

	if info.MdmIsFraction {
		if err := json.Unmarshal(raw["mdm"], &info.mdmFraction); err != nil {
			return nil, fmt.Errorf("%s: mdm must be a scalar fraction when mdm_is_fraction is set: %w", path, err)
		}
		if info.mdmFraction < 0 {
			return nil, fmt.Errorf("%s: mdm fraction %g is negative", path, info.mdmFraction)
		}
	} else {
		if err := json.Unmarshal(raw["mdm"], &info.mdmValues); err != nil {
			return nil, fmt.Errorf("%s: mdm must be a mass array when mdm_is_fraction is unset: %w", path, err)
		}
	}
	if info.EcmTev <= 0 {
		return nil, fmt.Errorf("%s: ecm_tev must be positive, got %g", path, info.EcmTev)
	}
	return &info, nil
}

// ResolveMdm returns the source dark-matter mass at each mediator mass,
// expanding a fractional definition against the masses it is given.
func (info *SourceInfo) ResolveMdm(mmed []float64) ([]float64, error) {
	mdm := make([]float64, len(mmed))
	if info.MdmIsFraction {
		for i, m := range mmed {
			mdm[i] = info.mdmFraction * m
		}
		return mdm, nil
	}
	if len(info.mdmValues) != len(mmed) {
		return nil, fmt.Errorf("model info has %d mdm values for %d mediator masses", len(info.mdmValues), len(mmed))
	}
	copy(mdm, info.mdmValues)
	return mdm, nil
}
