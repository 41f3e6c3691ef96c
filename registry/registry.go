package registry

import "sort"

// Family classifies which node protocol a network speaks.
type Family string

const (
	FamilyGrid    Family = "grid"
	FamilyStellar Family = "stellar"
)

// Network describes one supported chain.
type Network struct {
	Name           string
	Family         Family
	NativeSymbol   string
	NativeDecimals int
}

// Asset describes one payable asset on a network. The native asset carries an
// empty Descriptor; token assets carry the chain's token address.
type Asset struct {
	Network    string
	Symbol     string
	Descriptor string
	Decimals   int
}

// Registry is an immutable set of known networks and assets. Build one at
// startup and pass it along; there is no package-level table to mutate.
type Registry struct {
	networks     map[string]Network
	bySymbol     map[string]Asset
	byDescriptor map[string]Asset
}

func New(networks []Network, assets []Asset) *Registry {
	r := &Registry{
		networks:     make(map[string]Network, len(networks)),
		bySymbol:     make(map[string]Asset, len(assets)),
		byDescriptor: make(map[string]Asset, len(assets)),
	}
	for _, n := range networks {
		r.networks[n.Name] = n
		// The native asset is addressable like any other, under its symbol
		// and under the empty descriptor.
		native := Asset{Network: n.Name, Symbol: n.NativeSymbol, Decimals: n.NativeDecimals}
		r.bySymbol[n.Name+"/"+n.NativeSymbol] = native
		r.byDescriptor[n.Name+"/"] = native
	}
	for _, a := range assets {
		r.bySymbol[a.Network+"/"+a.Symbol] = a
		r.byDescriptor[a.Network+"/"+a.Descriptor] = a
	}
	return r
}

func (r *Registry) Network(name string) (Network, bool) {
	n, ok := r.networks[name]
	return n, ok
}

// Asset looks up an asset by its display symbol, e.g. ("grid-devnet", "USDG").
func (r *Registry) Asset(network, symbol string) (Asset, bool) {
	a, ok := r.bySymbol[network+"/"+symbol]
	return a, ok
}

// AssetByDescriptor resolves the on-chain descriptor form used in payment
// requirements; "" resolves to the network's native asset.
func (r *Registry) AssetByDescriptor(network, descriptor string) (Asset, bool) {
	a, ok := r.byDescriptor[network+"/"+descriptor]
	return a, ok
}

// Networks returns the known network names, sorted for stable listings.
func (r *Registry) Networks() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the registry shipped with the engine: the grid networks the
// devnode simulates plus the public Stellar networks.
func Defaults() *Registry {
	return New(
		[]Network{
			{Name: "grid-devnet", Family: FamilyGrid, NativeSymbol: "GRID", NativeDecimals: 6},
			{Name: "grid-mainnet", Family: FamilyGrid, NativeSymbol: "GRID", NativeDecimals: 6},
			{Name: "stellar-testnet", Family: FamilyStellar, NativeSymbol: "XLM", NativeDecimals: 7},
			{Name: "stellar-pubnet", Family: FamilyStellar, NativeSymbol: "XLM", NativeDecimals: 7},
		},
		[]Asset{
			{Network: "grid-devnet", Symbol: "USDG", Descriptor: "ct:1201/0", Decimals: 6},
			{Network: "grid-mainnet", Symbol: "USDG", Descriptor: "ct:9921/0", Decimals: 6},
			{Network: "stellar-pubnet", Symbol: "USDC", Descriptor: "USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN", Decimals: 7},
		},
	)
}
