package ratelimit

import "strings"

// MatchEndpoint returns the first config whose method and path pattern match,
// or nil. GET /health is always unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: "/health", Method: "GET"}
	}
	for i := range configs {
		if configs[i].Method == method && matchPath(configs[i].Path, path) {
			return &configs[i]
		}
	}
	return nil
}

func matchPath(pattern, path string) bool {
	prefix := strings.HasSuffix(pattern, "/")
	want := splitPath(pattern)
	got := splitPath(path)
	if len(got) < len(want) || (!prefix && len(got) != len(want)) {
		return false
	}
	if prefix && len(got) == len(want) {
		return false
	}
	for i, seg := range want {
		if seg != "*" && seg != got[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
