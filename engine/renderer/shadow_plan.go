package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
)

// ShadowMapKey returns the cache key of the shadow map of a light.
func ShadowMapKey(id ident.ID) string {
	return "light/" + id.String()
}

// PlanShadowMaps brings the shadow-map entries of c in line with rs: every
// shadow-casting light gets an entry sized for its shadow descriptor, and
// entries of lights that no longer cast shadows are evicted. Spherical lights
// render a cube map and are charged CubeFaces faces.
//
// Parameters:
//   - rs: the flattened scene
//   - c: the cache to update
//
// Returns:
//   - error: error if a shadow descriptor has an invalid map size
func PlanShadowMaps(rs *RenderScene, c Cache) error {
	keep := make(map[string]bool)
	for _, l := range rs.ShadowCasters() {
		shadow, _ := l.Shadow()
		bytes, err := ShadowMapBytes(shadow.MapSize())
		if err != nil {
			return fmt.Errorf("light %s: %w", l.ID(), err)
		}
		if l.Type() == light.LightTypeSpherical {
			bytes *= CubeFaces
		}
		key := ShadowMapKey(l.ID())
		if err := c.Put(KindShadowMap, key, bytes); err != nil {
			return err
		}
		keep[key] = true
	}
	for _, key := range c.Keys(KindShadowMap) {
		if !keep[key] {
			c.Evict(KindShadowMap, key)
		}
	}
	return nil
}
