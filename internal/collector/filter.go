package collector

import "strings"

// DefaultVirtualPrefixes lists name prefixes of loopback, bridge, tunnel,
// container and VPN interfaces. Their traffic duplicates or is unrelated to
// what crosses the physical links.
var DefaultVirtualPrefixes = []string{
	"lo",
	"ifb",
	"lxdbr",
	"virbr",
	"br",
	"vnet",
	"tun",
	"tap",
	"docker",
	"utun",
	"wg",
	"veth",
}

// InterfaceFilter excludes interfaces by name prefix.
type InterfaceFilter struct {
	prefixes []string
}

// NewInterfaceFilter returns a filter with the default virtual prefixes
// plus any extra ones.
func NewInterfaceFilter(extra ...string) *InterfaceFilter {
	prefixes := make([]string, 0, len(DefaultVirtualPrefixes)+len(extra))
	prefixes = append(prefixes, DefaultVirtualPrefixes...)
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &InterfaceFilter{prefixes: prefixes}
}

func (f *InterfaceFilter) Excluded(name string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (f *InterfaceFilter) Prefixes() []string {
	out := make([]string, len(f.prefixes))
	copy(out, f.prefixes)
	return out
}
