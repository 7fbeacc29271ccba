package mqtt

import "strings"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "sardana2xls"

// Topics builds sardana2xls topic names under a prefix.
//
//	topics := mqtt.NewTopics("beamline/b108a")
//	topics.Export("B108A") // "beamline/b108a/B108A/export"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders for prefix. Surrounding slashes are
// dropped; an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic prefix.
func (t Topics) Prefix() string {
	return t.prefix
}

// Export returns the topic for export summaries of a pool.
//
// Example: sardana2xls/B108A/export
func (t Topics) Export(pool string) string {
	return t.prefix + "/" + pool + "/export"
}

// Status returns the retained client status topic.
//
// Example: sardana2xls/status
func (t Topics) Status() string {
	return t.prefix + "/status"
}
