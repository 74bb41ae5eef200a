package testutil

import "github.com/udisondev/herbfield/internal/model"

// MeadowHerbs returns the stock herb set used across tests.
func MeadowHerbs() []*model.HerbType {
	return []*model.HerbType{
		model.NewHerbType("item_licorice", "Licorice", 50, "herbs/licorice"),
		model.NewHerbType("item_ginseng", "Ginseng", 10, "herbs/ginseng"),
		model.NewHerbType("item_angelica", "Angelica", 30, "herbs/angelica"),
	}
}
