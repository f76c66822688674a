//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/rpgcore/internal/config"
)

// initializeGame wires a Game from configuration.
func initializeGame(ctx context.Context, cfg config.Config) (*Game, func(), error) {
	wire.Build(
		provideLogger,
		provideContent,
		provideField,
		providePlayer,
		provideNPCs,
		provideShops,
		provideStore,
		provideSession,
		provideEnv,
		provideScreen,
		provideApp,
		provideAutosave,
		provideLifecycle,
		provideGame,
	)
	return nil, nil, nil
}
