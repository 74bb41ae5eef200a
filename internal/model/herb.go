package model

// HerbType describes one harvestable resource kind that may be spawned.
// Immutable after construction.
type HerbType struct {
	id     string
	name   string
	weight float64
	icon   string
}

// NewHerbType creates a herb definition.
// icon is an opaque reference to the art asset, interpreted only by the renderer.
func NewHerbType(id, name string, weight float64, icon string) *HerbType {
	return &HerbType{
		id:     id,
		name:   name,
		weight: weight,
		icon:   icon,
	}
}

// ID returns herb identifier (matches item ID on the backend)
func (h *HerbType) ID() string {
	return h.id
}

// Name returns display name
func (h *HerbType) Name() string {
	return h.name
}

// Weight returns relative spawn weight
func (h *HerbType) Weight() float64 {
	return h.weight
}

// Icon returns visual asset reference
func (h *HerbType) Icon() string {
	return h.icon
}
