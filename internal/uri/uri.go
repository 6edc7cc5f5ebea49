// Package uri expands abstract logo locators (ipfs, ipns, arweave, http)
// into concrete fetchable URLs.
package uri

import (
	"strings"
)

// Default gateways.
const (
	DefaultArweaveGateway = "https://arweave.net"
)

// DefaultIPFSGateways are tried in order for ipfs:// and ipns:// locators.
//
//nolint:gochecknoglobals // Configuration default, same pattern as config defaults
var DefaultIPFSGateways = []string{
	"https://cloudflare-ipfs.com",
	"https://ipfs.io",
}

// Normalizer converts candidate URIs into resolved URLs.
// The zero value is not usable; use New or Default.
type Normalizer struct {
	ipfsGateways   []string
	arweaveGateway string
}

// New creates a Normalizer with the given gateways. Empty arguments fall back
// to the defaults. Trailing slashes on gateways are ignored.
func New(ipfsGateways []string, arweaveGateway string) *Normalizer {
	n := &Normalizer{arweaveGateway: DefaultArweaveGateway}

	for _, g := range ipfsGateways {
		if g = strings.TrimRight(strings.TrimSpace(g), "/"); g != "" {
			n.ipfsGateways = append(n.ipfsGateways, g)
		}
	}
	if len(n.ipfsGateways) == 0 {
		n.ipfsGateways = append([]string(nil), DefaultIPFSGateways...)
	}

	if g := strings.TrimRight(strings.TrimSpace(arweaveGateway), "/"); g != "" {
		n.arweaveGateway = g
	}

	return n
}

// Default returns a Normalizer using the default gateways.
func Default() *Normalizer {
	return New(nil, "")
}

// ToHTTP expands a single candidate URI into zero or more URLs.
// Unknown schemes, bare words and locators with nothing after the scheme
// yield nil.
func (n *Normalizer) ToHTTP(candidate string) []string {
	scheme, rest, found := strings.Cut(candidate, ":")
	if !found || rest == "" {
		return nil
	}
	path := strings.TrimPrefix(rest, "//")

	switch strings.ToLower(scheme) {
	case "data", "https":
		return []string{candidate}
	case "http":
		return []string{"https:" + rest, candidate}
	case "ipfs":
		if path == "" {
			return nil
		}
		urls := make([]string, 0, len(n.ipfsGateways))
		for _, g := range n.ipfsGateways {
			urls = append(urls, g+"/ipfs/"+path+"/")
		}
		return urls
	case "ipns":
		if path == "" {
			return nil
		}
		urls := make([]string, 0, len(n.ipfsGateways))
		for _, g := range n.ipfsGateways {
			urls = append(urls, g+"/ipns/"+path+"/")
		}
		return urls
	case "ar":
		if path == "" {
			return nil
		}
		return []string{n.arweaveGateway + "/" + path}
	default:
		return nil
	}
}

// Expand normalizes every candidate and flattens the results. All URLs from
// candidates[i] precede those from candidates[i+1].
func (n *Normalizer) Expand(candidates []string) []string {
	urls := make([]string, 0, len(candidates))
	for _, c := range candidates {
		urls = append(urls, n.ToHTTP(c)...)
	}
	return urls
}

// IsFetchable reports whether the candidate expands to at least one URL.
func (n *Normalizer) IsFetchable(candidate string) bool {
	return len(n.ToHTTP(candidate)) > 0
}
