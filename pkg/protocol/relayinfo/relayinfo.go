// Package relayinfo implements the NIP-11 relay information document.
package relayinfo

import (
	"encoding/json"

	"lantern.dev/pkg/utils/chk"
)

// Limits is the "limitation" object of the information document,
// describing the relay's enforced caps.
type Limits struct {
	MaxMessageLength    int   `json:"max_message_length,omitempty"`
	MaxSubscriptions    int   `json:"max_subscriptions,omitempty"`
	MaxFilters          int   `json:"max_filters,omitempty"`
	MaxLimit            int   `json:"max_limit,omitempty"`
	MaxSubidLength      int   `json:"max_subid_length,omitempty"`
	MaxEventTags        int   `json:"max_event_tags,omitempty"`
	MaxContentLength    int   `json:"max_content_length,omitempty"`
	MinPowDifficulty    int   `json:"min_pow_difficulty,omitempty"`
	AuthRequired        bool  `json:"auth_required"`
	PaymentRequired     bool  `json:"payment_required,omitempty"`
	RestrictedWrites    bool  `json:"restricted_writes,omitempty"`
	CreatedAtLowerLimit int64 `json:"created_at_lower_limit,omitempty"`
	CreatedAtUpperLimit int64 `json:"created_at_upper_limit,omitempty"`
}

// T is the NIP-11 relay information document.
type T struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Pubkey         string   `json:"pubkey,omitempty"`
	Contact        string   `json:"contact,omitempty"`
	Nips           []int    `json:"supported_nips"`
	Software       string   `json:"software"`
	Version        string   `json:"version"`
	Limitation     Limits   `json:"limitation"`
	RelayCountries []string `json:"relay_countries,omitempty"`
	LanguageTags   []string `json:"language_tags,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	PostingPolicy  string   `json:"posting_policy,omitempty"`
	PaymentsURL    string   `json:"payments_url,omitempty"`
	Icon           string   `json:"icon,omitempty"`
}

// Marshal renders the document as JSON.
func (t *T) Marshal() (b []byte, err error) {
	if b, err = json.Marshal(t); chk.E(err) {
		return
	}
	return
}
