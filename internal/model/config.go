package model

// Config holds all tunable reconciliation settings. Thresholds and weights
// are domain-calibrated constants supplied as configuration, never hard-coded
// in the matching code: they need re-tuning whenever a new data source is
// added.
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds" json:"thresholds"`
	Weights     WeightConfig      `yaml:"weights" json:"weights"`
	Dedup       DedupConfig       `yaml:"dedup" json:"dedup"`
	Phases      []PhaseSpec       `yaml:"phases" json:"phases"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// Tier holds one threshold per matchable dimension.
type Tier struct {
	NameAlone    float64 `yaml:"name_alone" json:"name_alone"`
	ContactAlone float64 `yaml:"contact_alone" json:"contact_alone"`
	Combined     float64 `yaml:"combined" json:"combined"`
}

// ThresholdConfig holds the two classification tiers plus the floor below
// which an alternative value is only kept as an unverified candidate.
type ThresholdConfig struct {
	TrueMatch      Tier    `yaml:"true_match" json:"true_match"`
	NearMatch      Tier    `yaml:"near_match" json:"near_match"`
	CandidateFloor float64 `yaml:"candidate_floor" json:"candidate_floor"`
}

// WeightConfig holds the sub-field weights used by the comparison
// strategies. Each block must sum to 1.0; the engine renormalizes over the
// fields actually present on both sides of a comparison.
type WeightConfig struct {
	Name      NameWeights      `yaml:"name" json:"name"`
	Address   AddressWeights   `yaml:"address" json:"address"`
	Household HouseholdWeights `yaml:"household" json:"household"`
	Contact   ContactWeights   `yaml:"contact" json:"contact"`
	Combined  CombinedWeights  `yaml:"combined" json:"combined"`
}

// NameWeights weights the structured parts of an individual name.
type NameWeights struct {
	First  float64 `yaml:"first" json:"first"`
	Middle float64 `yaml:"middle" json:"middle"`
	Last   float64 `yaml:"last" json:"last"`
	Suffix float64 `yaml:"suffix" json:"suffix"`
}

// AddressWeights weights the structured parts of a street address.
type AddressWeights struct {
	Number     float64 `yaml:"number" json:"number"`
	Street     float64 `yaml:"street" json:"street"`
	StreetType float64 `yaml:"street_type" json:"street_type"`
	City       float64 `yaml:"city" json:"city"`
	State      float64 `yaml:"state" json:"state"`
	Zip        float64 `yaml:"zip" json:"zip"`
	Unit       float64 `yaml:"unit" json:"unit"`
}

// HouseholdWeights weights a household-name comparison between the derived
// full name and the member-roster overlap.
type HouseholdWeights struct {
	FullName float64 `yaml:"full_name" json:"full_name"`
	Roster   float64 `yaml:"roster" json:"roster"`
}

// ContactWeights weights the contact-information comparison between two
// entities. The membership split applies only once the receiving entity is
// known to be in a household: at that point which household and the role
// within it carry more signal than the bare in-household boolean.
type ContactWeights struct {
	Address     float64 `yaml:"address" json:"address"`
	FireNumber  float64 `yaml:"fire_number" json:"fire_number"`
	POBox       float64 `yaml:"po_box" json:"po_box"`
	Membership  float64 `yaml:"membership" json:"membership"`
	HouseholdID float64 `yaml:"household_id" json:"household_id"`
	HeadFlag    float64 `yaml:"head_flag" json:"head_flag"`
}

// CombinedWeights blends the name-alone and contact-alone scores.
type CombinedWeights struct {
	Name    float64 `yaml:"name" json:"name"`
	Contact float64 `yaml:"contact" json:"contact"`
}

// DedupConfig holds the similarity thresholds used when pooling repeated
// values at consensus time.
type DedupConfig struct {
	Address    float64 `yaml:"address" json:"address"`
	Individual float64 `yaml:"individual" json:"individual"`
}

// PhaseSpec selects which entities a grouping phase processes. An empty
// EntityKind means "everything left from this source".
type PhaseSpec struct {
	Source SourceID `yaml:"source" json:"source"`
	Kind   string   `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// ConcurrencyConfig controls the consensus worker pool. Grouping itself is
// strictly sequential; only post-freeze synthesis runs concurrently.
type ConcurrencyConfig struct {
	SynthesisWorkers int `yaml:"synthesis_workers" json:"synthesis_workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the calibrated defaults. The threshold values are
// empirically chosen against the original island datasets; do not assume
// they generalize.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			TrueMatch:      Tier{NameAlone: 0.875, ContactAlone: 0.87, Combined: 0.86},
			NearMatch:      Tier{NameAlone: 0.845, ContactAlone: 0.85, Combined: 0.84},
			CandidateFloor: 0.5,
		},
		Weights: WeightConfig{
			Name:      NameWeights{First: 0.3, Middle: 0.1, Last: 0.5, Suffix: 0.1},
			Address:   AddressWeights{Number: 0.2, Street: 0.35, StreetType: 0.05, City: 0.2, State: 0.05, Zip: 0.1, Unit: 0.05},
			Household: HouseholdWeights{FullName: 0.6, Roster: 0.4},
			Contact:   ContactWeights{Address: 0.5, FireNumber: 0.2, POBox: 0.1, Membership: 0.2, HouseholdID: 0.7, HeadFlag: 0.3},
			Combined:  CombinedWeights{Name: 0.6, Contact: 0.4},
		},
		Dedup: DedupConfig{Address: 0.85, Individual: 0.85},
		Phases: []PhaseSpec{
			{Source: SourceDonor, Kind: "household"},
			{Source: SourceAssessor, Kind: "household"},
			{Source: SourceDonor, Kind: "individual"},
			{Source: SourceAssessor, Kind: "individual"},
			{Source: SourceDonor}, // remainder, authoritative source first
		},
		Concurrency: ConcurrencyConfig{SynthesisWorkers: 4},
		Output:      OutputConfig{IncludeFooter: true},
	}
}
