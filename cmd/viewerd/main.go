// Command viewerd serves StarCraft II viewer overlay data: per-channel
// player profiles assembled from the community API and cached in Redis.
package main

import (
	"go.uber.org/fx"

	"github.com/sc2stream/ladderviewer/internal/app"
)

func main() {
	fx.New(
		app.Module,
		fx.Invoke(app.Run),
	).Run()
}
