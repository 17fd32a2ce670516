package model

// Fixed values of the exported document contract.
const (
	// ContractProduct identifies the product family in the contract header.
	ContractProduct = "CONVEXO"

	// ContractTier identifies the service tier in the contract header.
	ContractTier = "Enterprise-Graded"

	// ContractNoisePolicy declares how strictly heuristic noise is filtered.
	ContractNoisePolicy = "strict"

	// TreeVersion is the dialogue-tree document format version.
	TreeVersion = "0.0"

	// TreeType is the document type discriminator.
	TreeType = "tree"

	// StartNodeID is the ID of the synthetic conversation entry node.
	StartNodeID = "start"

	// EntryMessage greets the user at the conversation entry point.
	EntryMessage = "How can I help you today?"

	// FallbackMessage is shown when no FAQ node matches the user's intent.
	// The typographic apostrophe is part of the contract wording.
	FallbackMessage = "I couldn’t find an exact answer, but these might help."

	// FallbackStrategy names the fallback resolution strategy.
	FallbackStrategy = "intent-based"

	// FallbackConfidence is the fixed confidence of fallback suggestions.
	FallbackConfidence = 0.6

	// BackOptionText labels the option returning to the start node.
	BackOptionText = "Back"
)

// Contract is the enterprise contract header of the exported document.
type Contract struct {
	Product       string `json:"product"`
	Tier          string `json:"tier"`
	Deterministic bool   `json:"deterministic"`
	NoisePolicy   string `json:"noisePolicy"`
}

// DefaultContract returns the fixed contract header.
func DefaultContract() Contract {
	return Contract{
		Product:       ContractProduct,
		Tier:          ContractTier,
		Deterministic: true,
		NoisePolicy:   ContractNoisePolicy,
	}
}

// Option is a selectable choice on a dialogue node.
// Next must name an existing node ID; the assembler guarantees this by
// construction.
type Option struct {
	// Text is the option label shown to the user.
	Text string `json:"text"`

	// Next is the ID of the node this option leads to.
	Next string `json:"next"`
}

// Node is one node of the dialogue tree.
//
// Two shapes share this struct: the synthetic start node (Type "system"
// with Message set) and FAQ nodes (Type "faq" with the full record
// embedded). Unused fields are omitted from JSON.
type Node struct {
	// ID is the node identifier; for FAQ nodes this is the record's
	// content-derived fingerprint.
	ID string `json:"id,omitempty"`

	// Type discriminates system and faq nodes.
	Type string `json:"type"`

	// Message is the system prompt; set only on the start node.
	Message string `json:"message,omitempty"`

	// Question, Answer, Intent, Confidence, Source, LastUpdated and
	// Version carry the embedded FAQ record; set only on FAQ nodes.
	Question    string      `json:"question,omitempty"`
	Answer      string      `json:"answer,omitempty"`
	Intent      string      `json:"intent,omitempty"`
	Confidence  *Confidence `json:"confidence,omitempty"`
	Source      *Source     `json:"source,omitempty"`
	LastUpdated string      `json:"lastUpdated,omitempty"`
	Version     string      `json:"version,omitempty"`

	// Options are the selectable follow-ups in presentation order.
	Options []Option `json:"options"`

	// UI carries presentation hints.
	UI UIHints `json:"ui"`
}

// Metadata summarizes the generated document.
type Metadata struct {
	// TotalNodes is the size of the node mapping (FAQ nodes plus start).
	TotalNodes int `json:"totalNodes"`

	// FAQNodes is the number of FAQ records in the document.
	FAQNodes int `json:"faqNodes"`

	// NavItems is the number of navigation fallback entries.
	NavItems int `json:"navItems"`

	// UniqueIntents is the number of distinct FAQ intent slugs.
	UniqueIntents int `json:"uniqueIntents"`

	// LastValidated is the generation timestamp in ISO-8601 UTC.
	LastValidated string `json:"lastValidated"`
}

// Fallback lists navigation suggestions offered when no FAQ matches.
type Fallback struct {
	Message            string             `json:"message"`
	Strategy           string             `json:"strategy"`
	FallbackConfidence float64            `json:"fallbackConfidence"`
	Navigation         []NavigationRecord `json:"navigation"`
}

// Conversation wraps the entry greeting and the fallback block.
type Conversation struct {
	EntryMessage string   `json:"entryMessage"`
	Fallback     Fallback `json:"fallback"`
}

// TreeDocument is the exported dialogue-tree artifact.
//
// Invariants maintained by the assembler:
//   - Metadata.TotalNodes == Metadata.FAQNodes + 1 (the start node)
//   - Metadata.UniqueIntents <= Metadata.FAQNodes
//   - every Option.Next exists as a key in Nodes
type TreeDocument struct {
	Contract     Contract         `json:"contract"`
	Version      string           `json:"version"`
	Type         string           `json:"type"`
	GeneratedAt  string           `json:"generatedAt"`
	Metadata     Metadata         `json:"metadata"`
	Conversation Conversation     `json:"conversation"`
	Nodes        map[string]*Node `json:"nodes"`
}
