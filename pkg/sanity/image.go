package sanity

// ResolveImageURL extracts a usable URL from a CMS image field. Only
// images whose asset was expanded to carry a direct url are resolved;
// bare asset references (asset._ref) would need a CDN round trip and
// map to nil.
func ResolveImageURL(field any) *string {
	image, ok := field.(map[string]any)
	if !ok {
		return nil
	}
	asset, ok := image["asset"].(map[string]any)
	if !ok {
		return nil
	}
	rawURL, ok := asset["url"].(string)
	if !ok || rawURL == "" {
		return nil
	}
	return &rawURL
}
