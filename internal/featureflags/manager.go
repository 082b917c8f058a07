// Package featureflags evaluates FEATURE_FLAGS rollout settings.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags read by the marketplace.
const (
	// ProductListCache serves the first unfiltered catalog page from Redis.
	ProductListCache = "product_list_cache"
	// SellerNotifications publishes product_sold events to sellers after checkout.
	SellerNotifications = "seller_notifications"
)

// Defaults apply when FEATURE_FLAGS does not mention a flag.
var Defaults = map[string]string{
	ProductListCache:    "on",
	SellerNotifications: "on",
}

type rule struct {
	on      bool
	percent int // -1 when the rule is a plain on/off switch
}

// Manager evaluates flags given as "name=value" pairs, e.g.
// "product_list_cache=off,seller_notifications=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw on top of Defaults. Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}
	for name, value := range Defaults {
		if r, ok := parseRule(value); ok {
			m.rules[name] = r
		}
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = normalize(key)
		if key == "" {
			continue
		}
		if r, ok := parseRule(normalize(value)); ok {
			m.rules[key] = r
		}
	}
	return m
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{on: true, percent: -1}, true
	case "off", "false", "0":
		return rule{on: false, percent: -1}, true
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return rule{}, false
		}
		return rule{percent: min(max(pct, 0), 100)}, true
	}
	return rule{}, false
}

// Enabled reports whether name is on for userID. Percentage rollouts are
// deterministic per user; anonymous callers (userID 0) only see 100% rollouts.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	if r.percent < 0 {
		return r.on
	}
	switch {
	case r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < r.percent
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
