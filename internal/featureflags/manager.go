package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known catalog flags.
const (
	// StrictIDLists rejects non-numeric tokens in comma-separated id lists
	// instead of dropping them.
	StrictIDLists = "strict_id_lists"
	// CascadeVideoDelete removes references to deleted videos and playlists
	// from the rest of the document.
	CascadeVideoDelete = "cascade_video_delete"
)

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "strict_id_lists=on,cascade_video_delete=off,new_player=25%"
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = normalize(key)
		value = normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether a flag is switched on globally. Percentage
// rollouts only count as enabled at 100%.
func (m *Manager) Enabled(name string) bool {
	return m.EnabledFor(name, "")
}

// EnabledFor evaluates a flag for one subject (a session id, a client
// address). Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic rollout by subject, e.g. 25%)
func (m *Manager) EnabledFor(name, subject string) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if subject == "" {
		return false
	}
	return rolloutBucket(name, subject) < pct
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns the global status of every configured flag plus the
// catalog flags, which report false when unset.
func (m *Manager) Snapshot() map[string]bool {
	out := map[string]bool{
		StrictIDLists:      m.Enabled(StrictIDLists),
		CascadeVideoDelete: m.Enabled(CascadeVideoDelete),
	}
	for _, name := range m.Names() {
		out[name] = m.Enabled(name)
	}
	return out
}

// Names lists configured flag names in sorted order.
func (m *Manager) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.flags))
	for name := range m.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + subject))
	return int(h.Sum32() % 100)
}
