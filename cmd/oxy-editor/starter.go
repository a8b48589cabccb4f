package main

import (
	"github.com/Carmen-Shannon/oxy-editor/engine/config"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
)

const islandSize = 100

// populateStarter adds a flat terrain centered on the origin and a water plane at the configured
// height.
func populateStarter(s scene.Scene, cfg config.EditorConfig) error {
	ctx := s.Context()

	terrain, err := game_object.NewTerrainComponent(ctx, shader.NewLitShader(),
		game_object.WithSize(islandSize),
		game_object.WithTint(0.45, 0.55, 0.3, 1),
	)
	if err != nil {
		return err
	}
	water, err := game_object.NewWaterComponent(ctx, shader.NewWaterShader(),
		game_object.WithSize(islandSize*4),
	)
	if err != nil {
		terrain.Dispose()
		return err
	}

	if err := s.Graph().Add(game_object.NewGameObject(
		game_object.WithName("terrain"),
		game_object.WithPosition(-islandSize/2, 0, -islandSize/2),
		game_object.WithComponents(terrain),
	)); err != nil {
		return err
	}
	return s.Graph().Add(game_object.NewGameObject(
		game_object.WithName("water"),
		game_object.WithPosition(0, cfg.Water.Height, 0),
		game_object.WithComponents(water),
	))
}
