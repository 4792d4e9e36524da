package model

import "time"

// Report is the complete output of a reconciliation run.
type Report struct {
	RunID       string    `json:"run_id"`
	InputPath   string    `json:"input_path,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Entities int `json:"entities"` // total entities processed
	Groups   int `json:"groups"`   // groups founded
	Merged   int `json:"merged"`   // groups with more than one member

	PhaseStats []PhaseStats   `json:"phase_stats"`
	Summary    []GroupSummary `json:"groups_detail"`
}

// PhaseStats records what one grouping phase did.
type PhaseStats struct {
	Phase        int      `json:"phase"`
	Source       SourceID `json:"source"`
	Kind         string   `json:"kind,omitempty"`
	Processed    int      `json:"processed"`
	Founded      int      `json:"founded"`
	Joined       int      `json:"joined"`
	NearMisses   int      `json:"near_misses"`
	Duplicates   int      `json:"duplicates"` // duplicate-assignment attempts, skipped
}

// GroupSummary is the report view of one entity group.
type GroupSummary struct {
	Index         int      `json:"index"`
	Phase         int      `json:"phase"`
	FounderKey    string   `json:"founder_key"`
	MemberKeys    []string `json:"member_keys"`
	NearMissKeys  []string `json:"near_miss_keys,omitempty"`
	Prospect      bool     `json:"prospect"`
	ConsensusName string   `json:"consensus_name,omitempty"`
	HasConsensus  bool     `json:"has_consensus"`
}
