// Package provider defines the fixed set of supported providers.
package provider

import (
	"fmt"
	"strings"
)

// ID identifies one of the supported providers.
type ID string

const (
	OpenAI      ID = "OpenAI"
	Anthropic   ID = "Anthropic"
	Google      ID = "Google"
	Azure       ID = "Azure"
	Cohere      ID = "Cohere"
	HuggingFace ID = "HuggingFace"
)

// All lists every provider in display order.
var All = []ID{OpenAI, Anthropic, Google, Azure, Cohere, HuggingFace}

// Parse matches s case-insensitively against the known providers.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, id := range All {
		if strings.EqualFold(s, string(id)) {
			return id, nil
		}
	}

	return "", fmt.Errorf("unknown provider %q (want one of %s)", s, strings.Join(Names(), ", "))
}

// Names returns the provider names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, id := range All {
		names[i] = string(id)
	}
	return names
}

func (id ID) String() string {
	return string(id)
}
