package types

import "fmt"

// HistogramMode represents how histogram buckets become points.
type HistogramMode string

const (
	// HistogramModeAggregate emits one point per bucket with the bucket's
	// count as field.
	HistogramModeAggregate HistogramMode = "aggregate"
	// HistogramModeSample emits one point per sample, that is, count points
	// per bucket.
	HistogramModeSample HistogramMode = "sample"
)

// Validate returns error if HistogramMode is not supported.
func (m HistogramMode) Validate() error {
	switch m {
	case HistogramModeAggregate, HistogramModeSample:
		return nil
	default:
		return fmt.Errorf("unsupported histogram mode %s", m)
	}
}

// Section is one of the output streams produced for a run.
type Section string

const (
	// SectionSummary is the one-point-per-run summary.
	SectionSummary Section = "summary"
	// SectionHistogram is the latency histogram.
	SectionHistogram Section = "histogram"
	// SectionDetails is the per-request detail series.
	SectionDetails Section = "details"
)

// AllSections lists every section in output order.
var AllSections = []Section{SectionSummary, SectionHistogram, SectionDetails}

// Validate returns error if Section is unknown.
func (s Section) Validate() error {
	switch s {
	case SectionSummary, SectionHistogram, SectionDetails:
		return nil
	default:
		return fmt.Errorf("unknown section %s", s)
	}
}

const (
	// DefaultMaxRecords is the number of run files processed per batch.
	DefaultMaxRecords = 30
	// DefaultSummaryMeasurement is the summary measurement name.
	DefaultSummaryMeasurement = "ghz_run"
	// DefaultHistogramMeasurement is the histogram measurement name.
	DefaultHistogramMeasurement = "ghz_histogram"
	// DefaultDetailsMeasurement is the per-request measurement name.
	DefaultDetailsMeasurement = "ghz_run"
)

// EncodeProfile defines how run files are encoded into line protocol.
type EncodeProfile struct {
	// Version defines the version of this object.
	Version int `json:"version" yaml:"version"`
	// Description is a string value to describe this object.
	Description string `json:"description,omitempty" yaml:"description"`
	// Spec defines behavior of encoding.
	Spec EncodeProfileSpec `json:"spec" yaml:"spec"`
}

// EncodeProfileSpec defines the encoding behavior.
type EncodeProfileSpec struct {
	// MaxRecords is the maximum number of run files processed in one
	// batch. The rest are skipped and reported.
	MaxRecords int `json:"maxRecords" yaml:"maxRecords"`
	// Concurrency is the number of records encoded at the same time.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// HistogramMode defines how histogram buckets become points.
	HistogramMode HistogramMode `json:"histogramMode" yaml:"histogramMode"`
	// Measurements names the measurement of each section.
	Measurements Measurements `json:"measurements" yaml:"measurements"`
	// Sections selects the output streams. Empty means all of them.
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	// Tags are static tags added to every point after the option tags.
	Tags map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Measurements names the measurement of each section.
type Measurements struct {
	Summary   string `json:"summary" yaml:"summary"`
	Histogram string `json:"histogram" yaml:"histogram"`
	Details   string `json:"details" yaml:"details"`
}

// NewDefaultEncodeProfile returns the profile used when no config file is
// given.
func NewDefaultEncodeProfile() *EncodeProfile {
	return &EncodeProfile{
		Version: 1,
		Spec: EncodeProfileSpec{
			MaxRecords:    DefaultMaxRecords,
			Concurrency:   1,
			HistogramMode: HistogramModeAggregate,
			Measurements: Measurements{
				Summary:   DefaultSummaryMeasurement,
				Histogram: DefaultHistogramMeasurement,
				Details:   DefaultDetailsMeasurement,
			},
		},
	}
}

// Validate verifies fields of EncodeProfile.
func (ep EncodeProfile) Validate() error {
	if ep.Version != 1 {
		return fmt.Errorf("version should be 1")
	}
	return ep.Spec.Validate()
}

// Validate verifies fields of EncodeProfileSpec.
func (spec EncodeProfileSpec) Validate() error {
	if spec.MaxRecords <= 0 {
		return fmt.Errorf("maxRecords requires > 0: %v", spec.MaxRecords)
	}

	if spec.Concurrency <= 0 {
		return fmt.Errorf("concurrency requires > 0: %v", spec.Concurrency)
	}

	if err := spec.HistogramMode.Validate(); err != nil {
		return err
	}

	if err := spec.Measurements.Validate(); err != nil {
		return fmt.Errorf("measurements: %v", err)
	}

	for idx, s := range spec.Sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("idx: %v section: %v", idx, err)
		}
	}

	for k := range spec.Tags {
		if k == "" {
			return fmt.Errorf("tag key is required")
		}
	}
	return nil
}

// Validate validates Measurements.
func (m *Measurements) Validate() error {
	if m.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if m.Histogram == "" {
		return fmt.Errorf("histogram is required")
	}
	if m.Details == "" {
		return fmt.Errorf("details is required")
	}
	return nil
}

// EnabledSections returns the selected sections in output order.
func (spec EncodeProfileSpec) EnabledSections() []Section {
	if len(spec.Sections) == 0 {
		return append([]Section(nil), AllSections...)
	}

	res := make([]Section, 0, len(AllSections))
	for _, s := range AllSections {
		for _, want := range spec.Sections {
			if s == want {
				res = append(res, s)
				break
			}
		}
	}
	return res
}
