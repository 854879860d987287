package trigger

import "regexp"

// Vocabulary maps a canonical trigger key to its spoken variations.
// Matching is case-insensitive. Every canonical key is also a member of
// its own variation set - NewVocabulary enforces that.
type Vocabulary map[string][]string

// NewVocabulary normalizes the given variation table so that each
// canonical key appears in its own variation set.
func NewVocabulary(variations map[string][]string) Vocabulary {
	v := make(Vocabulary, len(variations))

	for canonical, vars := range variations {
		found := false
		for _, variant := range vars {
			if variant == canonical {
				found = true
				break
			}
		}

		if found {
			v[canonical] = vars
		} else {
			v[canonical] = append([]string{canonical}, vars...)
		}
	}

	return v
}

// Terms returns all canonical keys and variations as a flat list.
func (v Vocabulary) Terms() []string {
	terms := make([]string, 0, len(v)*8)
	seen := map[string]struct{}{}

	for _, variants := range v {
		for _, variant := range variants {
			if _, ok := seen[variant]; ok {
				continue
			}
			seen[variant] = struct{}{}
			terms = append(terms, variant)
		}
	}

	return terms
}

// CompoundPattern is a regex idiom for multi-word trigger phrases with a
// confidence weight. All patterns are evaluated and the maximum weight wins.
type CompoundPattern struct {
	Pattern *regexp.Regexp
	Weight  float64
}

// DefaultVocabulary returns the built-in trigger table.
// The variations include common speech recognition mishearings.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(map[string][]string{
		"friend": {"friend", "friends", "friendly", "befriend", "my friend", "hey friend",
			"hello friend", "hi friend", "now friend", "ok friend", "okay friend",
			"fiend", "fren", "front", "trend"},
		"code": {"code helper", "code buddy", "code friend", "coding", "let's code",
			"start coding", "code with me", "code assistant"},
		"assistant": {"assistant please", "my assistant", "hey assistant",
			"assistants", "assistance", "assisting", "assist me"},
		"project": {"project helper", "project buddy", "project assistant", "my project",
			"help with project", "project work", "project setup"},
		"calmhive": {"calmhive", "calm hive", "calm helper", "hive helper",
			"calm hive helper", "calmhive assistant"},
		"do":   {"do this now", "do this for me", "do this please", "do that for me"},
		"help": {"help me with", "help me out", "help with this", "can you help",
			"could you help", "i need help with"},
		"please": {"could you please", "would you please", "please assist",
			"please help me", "if you please"},
	})
}

// DefaultCompoundPatterns returns the built-in multi-word trigger idioms.
// The weights are empirically tuned, see DESIGN.md.
func DefaultCompoundPatterns() []CompoundPattern {
	return []CompoundPattern{
		{regexp.MustCompile(`(hey|hi|hello|ok|okay)\s+(claude|friend|assistant|calmhive|code)`), 0.9},
		{regexp.MustCompile(`(let's|let us)\s+(code|build|create|make|generate)`), 0.8},
		{regexp.MustCompile(`(help|assist)\s+(me|us)\s+with`), 0.8},
		{regexp.MustCompile(`(can|could|would)\s+you\s+(help|assist|show|tell|explain)`), 0.7},
		{regexp.MustCompile(`(please|kindly|can you please|would you please)\s+(help|show|tell|explain|create)`), 0.7},
	}
}
